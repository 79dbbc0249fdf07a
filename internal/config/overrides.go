package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/ytget/media-downloader/internal/download"
	"github.com/ytget/media-downloader/internal/model"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MEDIADL"

// Overrides are settings taken from the environment or the command line.
// Empty fields leave the stored preference alone.
type Overrides struct {
	DownloadDir string `envconfig:"DOWNLOAD_DIR"`
	Format      string `envconfig:"FORMAT"`
	Engine      string `envconfig:"ENGINE"`
	Language    string `envconfig:"LANGUAGE"`
	RateLimit   int64  `envconfig:"RATE_LIMIT" default:"-1"`
	Debug       bool   `envconfig:"DEBUG"`
}

// LoadOverrides reads MEDIADL_* environment variables
func LoadOverrides() (Overrides, error) {
	var o Overrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return Overrides{}, fmt.Errorf("parsing environment variables: %w", err)
	}
	return o, nil
}

// Validate checks the enumerated fields
func (o Overrides) Validate() error {
	if o.Format != "" {
		if _, err := model.ParseOutputFormat(o.Format); err != nil {
			return err
		}
	}
	if o.Engine != "" {
		known := false
		for _, name := range download.EngineNames() {
			known = known || name == o.Engine
		}
		if !known {
			return fmt.Errorf("%w: %q", download.ErrUnknownEngine, o.Engine)
		}
	}
	if o.Language != "" {
		if _, ok := LanguageOptions()[o.Language]; !ok {
			return fmt.Errorf("unsupported language: %q", o.Language)
		}
	}
	return nil
}

// Apply writes the non-empty overrides into settings
func (o Overrides) Apply(s *Settings) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.DownloadDir != "" {
		s.SetDownloadDirectory(o.DownloadDir)
	}
	if o.Format != "" {
		format, _ := model.ParseOutputFormat(o.Format)
		s.SetFormat(format)
	}
	if o.Engine != "" {
		s.SetEngine(o.Engine)
	}
	if o.Language != "" {
		s.SetLanguage(o.Language)
	}
	if o.RateLimit >= 0 {
		s.SetRateLimit(o.RateLimit)
	}
	return nil
}
