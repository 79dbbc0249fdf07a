package platform

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"
)

// DefaultToolsTimeout bounds the first-run download of the yt-dlp executable
const DefaultToolsTimeout = 3 * time.Minute

// Tools describes the external executables resolved for the engines
type Tools struct {
	YTDLPPath    string
	YTDLPVersion string
	FFmpegPath   string
	FFprobePath  string
}

// EnsureTools makes sure a yt-dlp executable is available, downloading it into
// the library cache when the system has none. ffmpeg is installed the same way
// on the platforms the library ships builds for; elsewhere the system copy is used.
func EnsureTools(ctx context.Context) (*Tools, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultToolsTimeout)
	defer cancel()

	resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{AllowVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("installing yt-dlp: %w", err)
	}

	tools := &Tools{
		YTDLPPath:    resolved.Executable,
		YTDLPVersion: resolved.Version,
	}

	logrus.WithFields(logrus.Fields{
		"path":    tools.YTDLPPath,
		"version": tools.YTDLPVersion,
	}).Info("yt-dlp ready")

	if !ffmpegInstallSupported() {
		return tools, nil
	}

	ff, err := ytdlp.InstallFFmpeg(ctx, nil)
	if err != nil {
		// mp3 extraction will fail later with a clear error if ffmpeg is really missing
		logrus.WithError(err).Warn("ffmpeg install failed, relying on system ffmpeg")
		return tools, nil
	}
	tools.FFmpegPath = ff.Executable

	fp, err := ytdlp.InstallFFprobe(ctx, nil)
	if err != nil {
		logrus.WithError(err).Warn("ffprobe install failed, relying on system ffprobe")
		return tools, nil
	}
	tools.FFprobePath = fp.Executable

	return tools, nil
}

func ffmpegInstallSupported() bool {
	switch runtime.GOOS {
	case "windows", "darwin", "linux":
		return true
	}
	return false
}
