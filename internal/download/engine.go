package download

import (
	"errors"
	"fmt"

	"github.com/ytget/media-downloader/internal/transcode"
)

// Engine identifiers stored in settings
const (
	EngineYTDLP  = "ytdlp"
	EngineNative = "native"

	DefaultEngine = EngineYTDLP
)

// ErrUnknownEngine is returned for engine names NewEngine does not know
var ErrUnknownEngine = errors.New("unknown download engine")

// EngineOptions configures NewEngine
type EngineOptions struct {
	RateLimit  int64  // bytes per second, 0 for unlimited
	FFmpegPath  string // used by engines that transcode in-process
	FFprobePath string // duration probe for transcode progress
}

// EngineNames lists the selectable engines, default first
func EngineNames() []string {
	return []string{EngineYTDLP, EngineNative}
}

// NewEngine creates the engine registered under name
func NewEngine(name string, opts EngineOptions) (Engine, error) {
	switch name {
	case EngineYTDLP, "":
		return NewYTDLPEngine(opts.RateLimit), nil
	case EngineNative:
		return NewNativeEngine(opts.RateLimit, transcode.NewService(opts.FFmpegPath).WithFFprobe(opts.FFprobePath)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
