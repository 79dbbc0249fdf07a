package download

import (
	"context"

	"github.com/ytget/media-downloader/internal/model"
)

// ProgressFunc receives engine progress callbacks on the worker goroutine
type ProgressFunc func(model.ProgressEvent)

// Engine is the external library boundary: everything that touches the network
// or media streams happens behind it.
type Engine interface {
	// Name returns the engine identifier used in settings
	Name() string

	// FetchInfo fetches media information without downloading. A missing title is not an error.
	FetchInfo(ctx context.Context, url string) (*model.MediaInfo, error)

	// Fetch downloads req into req.Directory and returns the produced file path
	Fetch(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc) (string, error)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadTask))
	Start(req model.DownloadRequest) (model.DownloadTask, error)
	Current() (model.DownloadTask, bool)
	Busy() bool

	// SetEngine swaps the engine; it fails with ErrBusy while a download runs
	SetEngine(engine Engine) error

	// Shutdown cancels a running download and waits for the worker to exit
	Shutdown()
}
