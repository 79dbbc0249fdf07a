package download

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/ytget/media-downloader/internal/model"
	"github.com/ytget/media-downloader/internal/platform"
	"github.com/ytget/media-downloader/internal/transcode"
)

// yt-dlp format selection and output naming
const (
	OutputTemplate      = "%(title)s.%(ext)s"
	VideoFormatSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	AudioFormatSelector = "bestaudio/best"
	AudioCodec          = "mp3"
	AudioQuality        = "192"

	ProgressInterval = 500 * time.Millisecond
)

// YTDLPEngine delegates everything to the yt-dlp executable via go-ytdlp
type YTDLPEngine struct {
	rateLimit int64
}

// NewYTDLPEngine creates the yt-dlp engine. rateLimit is in bytes per second, 0 for none.
func NewYTDLPEngine(rateLimit int64) *YTDLPEngine {
	return &YTDLPEngine{rateLimit: rateLimit}
}

// Name returns the engine identifier
func (e *YTDLPEngine) Name() string {
	return EngineYTDLP
}

// ytdlpOptions is the yt-dlp configuration derived from a request
type ytdlpOptions struct {
	Output       string
	Format       string
	ExtractAudio bool
	AudioFormat  string
	AudioQuality string
	LimitRate    string
}

// buildOptions maps a request to yt-dlp options
func (e *YTDLPEngine) buildOptions(req model.DownloadRequest) ytdlpOptions {
	opts := ytdlpOptions{
		Output: filepath.Join(req.Directory, OutputTemplate),
		Format: VideoFormatSelector,
	}
	if req.Format.IsAudioOnly() {
		opts.Format = AudioFormatSelector
		opts.ExtractAudio = true
		opts.AudioFormat = AudioCodec
		opts.AudioQuality = AudioQuality
	}
	if e.rateLimit > 0 {
		opts.LimitRate = strconv.FormatInt(e.rateLimit, 10)
	}
	return opts
}

// command turns options into a go-ytdlp command
func (o ytdlpOptions) command() *ytdlp.Command {
	cmd := ytdlp.New().
		Format(o.Format).
		Output(o.Output)

	if o.ExtractAudio {
		cmd = cmd.ExtractAudio().
			AudioFormat(o.AudioFormat).
			AudioQuality(o.AudioQuality)
	}
	if o.LimitRate != "" {
		cmd = cmd.LimitRate(o.LimitRate)
	}
	return cmd
}

type infoJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Extractor string `json:"extractor"`
}

// FetchInfo asks yt-dlp for the media JSON without downloading
func (e *YTDLPEngine) FetchInfo(ctx context.Context, url string) (*model.MediaInfo, error) {
	result, err := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching media info: %w", err)
	}
	return parseInfoOutput(result.Stdout)
}

func parseInfoOutput(stdout string) (*model.MediaInfo, error) {
	var info infoJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &info); err != nil {
		return nil, fmt.Errorf("decoding media info: %w", err)
	}
	return &model.MediaInfo{
		ID:        info.ID,
		Title:     info.Title,
		Extractor: info.Extractor,
	}, nil
}

// Fetch downloads with yt-dlp, including MP3 post-processing when requested
func (e *YTDLPEngine) Fetch(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc) (string, error) {
	opts := e.buildOptions(req)
	cmd := opts.command()

	var lastFilename string
	cmd.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		if update.Filename != "" {
			lastFilename = update.Filename
		}
		if onProgress != nil {
			onProgress(progressFromUpdate(update))
		}
	})

	result, err := cmd.Run(ctx, req.URL)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	filename := lastFilename
	if result != nil {
		if info, err := result.GetExtractedInfo(); err == nil && len(info) > 0 && info[0].Filename != nil {
			filename = *info[0].Filename
		}
	}

	return resolveOutputPath(filename, req.Format), nil
}

// progressFromUpdate converts a go-ytdlp update into a ProgressEvent
func progressFromUpdate(update ytdlp.ProgressUpdate) model.ProgressEvent {
	event := model.ProgressEvent{
		Status:          model.ProgressDownloading,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}

	switch update.Status {
	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		event.Status = model.ProgressFinished
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			event.BytesPerSecond = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if event.Status == model.ProgressDownloading && (update.TotalBytes > 0 || update.DownloadedBytes > 0) {
		event.PercentText = strings.TrimSpace(update.PercentString())
	}

	if eta := update.ETA(); eta > 0 {
		event.ETA = eta
	}

	if update.Info != nil && update.Info.Title != nil {
		event.Title = *update.Info.Title
	}

	return event
}

// resolveOutputPath maps the filename yt-dlp reported to the file left on disk.
// Audio extraction replaces the container extension after the download.
func resolveOutputPath(filename string, format model.OutputFormat) string {
	if filename == "" {
		return ""
	}
	if format.IsAudioOnly() {
		filename = transcode.AudioOutputPath(filename)
	}

	found, err := platform.FindFileWithFallback(filename)
	if err != nil {
		logrus.WithError(err).WithField("file", filename).Debug("output file not located")
		return filename
	}
	return found
}
