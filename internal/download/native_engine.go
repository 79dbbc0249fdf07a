package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	ytget "github.com/ytget/ytdlp/v2"
	ytgetclient "github.com/ytget/ytdlp/v2/client"

	"github.com/ytget/media-downloader/internal/model"
	"github.com/ytget/media-downloader/internal/platform"
	"github.com/ytget/media-downloader/internal/transcode"
)

// HTTP defaults for the native engine
const (
	NativeHTTPTimeout = 30 * time.Second
	NativeHTTPRetries = 3
	NativeUserAgent   = "media-downloader/1.0"

	nativeTempPrefix = ".media-downloader-"
)

// NativeEngine downloads with the pure Go github.com/ytget/ytdlp/v2 library.
// The library only produces MP4, so MP3 requests are converted with ffmpeg.
type NativeEngine struct {
	rateLimit  int64
	transcoder *transcode.Service
	httpConfig ytgetclient.Config
}

// NewNativeEngine creates the native engine
func NewNativeEngine(rateLimit int64, transcoder *transcode.Service) *NativeEngine {
	if transcoder == nil {
		transcoder = transcode.NewService("")
	}
	return &NativeEngine{
		rateLimit:  rateLimit,
		transcoder: transcoder,
		httpConfig: ytgetclient.Config{
			Timeout:   NativeHTTPTimeout,
			Retries:   NativeHTTPRetries,
			UserAgent: NativeUserAgent,
		},
	}
}

// Name returns the engine identifier
func (e *NativeEngine) Name() string {
	return EngineNative
}

// FetchInfo returns an empty MediaInfo; the title is learned from the download itself
func (e *NativeEngine) FetchInfo(ctx context.Context, url string) (*model.MediaInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.MediaInfo{}, nil
}

// Fetch downloads the MP4 into a temporary name, renames it after the title,
// and converts it to MP3 when the request is audio only.
func (e *NativeEngine) Fetch(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc) (string, error) {
	tempPath := filepath.Join(req.Directory, nativeTempPrefix+uuid.NewString()+model.FormatMP4.Extension())
	tracker := newRateTracker()

	client := ytgetclient.NewWith(e.httpConfig)
	d := ytget.New().
		WithHTTPClient(client.HTTPClient).
		WithOutputPath(tempPath).
		WithProgress(func(p ytget.Progress) {
			if onProgress != nil {
				onProgress(tracker.event(p.DownloadedSize, p.TotalSize))
			}
		})
	if e.rateLimit > 0 {
		d = d.WithRateLimit(e.rateLimit)
	}

	info, err := d.Download(ctx, req.URL)
	if err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("native download: %w", err)
	}

	title := ""
	if info != nil {
		title = info.Title
	}
	if onProgress != nil {
		onProgress(model.ProgressEvent{Status: model.ProgressFinished, Title: title})
	}

	downloaded, err := platform.FindFileWithFallback(tempPath)
	if err != nil {
		return "", fmt.Errorf("locating downloaded file: %w", err)
	}

	videoPath := uniquePath(filepath.Join(req.Directory, platform.SanitizeFilename(title)+model.FormatMP4.Extension()))
	if err := os.Rename(downloaded, videoPath); err != nil {
		return "", fmt.Errorf("renaming downloaded file: %w", err)
	}

	if !req.Format.IsAudioOnly() {
		return videoPath, nil
	}

	audioPath := uniquePath(transcode.AudioOutputPath(videoPath))
	if err := e.transcoder.ExtractAudio(ctx, videoPath, audioPath, nil); err != nil {
		return "", err
	}
	if err := os.Remove(videoPath); err != nil {
		logrus.WithError(err).WithField("file", videoPath).Warn("could not remove intermediate video")
	}
	if err := transcode.TagMP3(audioPath, title); err != nil {
		logrus.WithError(err).WithField("file", audioPath).Warn("could not tag mp3")
	}

	return audioPath, nil
}

// uniquePath appends " (n)" before the extension until the path is free
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// rateTracker derives speed and ETA from cumulative byte counts
type rateTracker struct {
	mu      sync.Mutex
	started time.Time
	now     func() time.Time
}

func newRateTracker() *rateTracker {
	return &rateTracker{now: time.Now}
}

func (r *rateTracker) event(downloaded, total int64) model.ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.started.IsZero() {
		r.started = now
	}

	event := model.ProgressEvent{
		Status:          model.ProgressDownloading,
		DownloadedBytes: downloaded,
		TotalBytes:      total,
	}

	elapsed := now.Sub(r.started).Seconds()
	if elapsed > 0 && downloaded > 0 {
		event.BytesPerSecond = float64(downloaded) / elapsed
		if total > downloaded {
			event.ETA = time.Duration(float64(total-downloaded) / event.BytesPerSecond * float64(time.Second))
		}
	}
	return event
}
