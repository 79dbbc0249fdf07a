package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/media-downloader/internal/download"
	"github.com/ytget/media-downloader/internal/model"
	"github.com/ytget/media-downloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir = "download_directory"
	KeyFormat      = "output_format"
	KeyLanguage    = "app_language"
	KeyEngine      = "download_engine"
	KeyRateLimit   = "rate_limit"
)

// Default values
const (
	DefaultLanguage     = "system"
	DefaultRateLimit    = 0
	FallbackDownloadDir = "/tmp/downloads"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, platform.ExpandHome(dir))
}

// GetFormat returns the last chosen output format
func (s *Settings) GetFormat() model.OutputFormat {
	format, err := model.ParseOutputFormat(s.app.Preferences().String(KeyFormat))
	if err != nil {
		return model.DefaultFormat
	}
	return format
}

// SetFormat stores the chosen output format
func (s *Settings) SetFormat(format model.OutputFormat) {
	s.app.Preferences().SetString(KeyFormat, string(format))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetEngine returns the configured download engine name
func (s *Settings) GetEngine() string {
	name := s.app.Preferences().String(KeyEngine)
	for _, known := range download.EngineNames() {
		if name == known {
			return name
		}
	}
	return download.DefaultEngine
}

// SetEngine sets the download engine name
func (s *Settings) SetEngine(name string) {
	s.app.Preferences().SetString(KeyEngine, name)
}

// GetRateLimit returns the download rate limit in bytes per second, 0 for none
func (s *Settings) GetRateLimit() int64 {
	value := s.app.Preferences().IntWithFallback(KeyRateLimit, DefaultRateLimit)
	if value < 0 {
		return 0
	}
	return int64(value)
}

// SetRateLimit sets the download rate limit
func (s *Settings) SetRateLimit(bytesPerSecond int64) {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	s.app.Preferences().SetInt(KeyRateLimit, int(bytesPerSecond))
}

// EngineOptions returns the options used to build the configured engine
func (s *Settings) EngineOptions() download.EngineOptions {
	return download.EngineOptions{RateLimit: s.GetRateLimit()}
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return LanguageOptions()
}

// LanguageCodes lists the selectable languages in menu order
func LanguageCodes() []string {
	return []string{"system", "en", "zh-TW", "ru", "pt"}
}

// LanguageOptions maps language codes to their display names
func LanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"zh-TW":  "繁體中文",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
