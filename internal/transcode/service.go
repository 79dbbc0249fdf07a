package transcode

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/sirupsen/logrus"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpeg settings for audio extraction
const (
	AudioCodec   = "libmp3lame"
	AudioBitrate = "192k"

	FFmpegCommand      = "ffmpeg"
	ProgressPipeTarget = "pipe:2"
	ProgressTimePrefix = "out_time_us="
	OutputExtensionMP3 = ".mp3"
)

// Service extracts audio tracks with ffmpeg
type Service struct {
	ffmpegPath  string
	ffprobePath string
}

// NewService creates a transcoder. An empty path means "ffmpeg" from PATH.
func NewService(ffmpegPath string) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	return &Service{ffmpegPath: ffmpegPath}
}

// WithFFprobe sets the ffprobe executable used to read the input duration.
// Without one, ffmpeg-go runs "ffprobe" from PATH.
func (s *Service) WithFFprobe(path string) *Service {
	s.ffprobePath = path
	return s
}

// ExtractAudio writes the audio track of inputPath to outputPath as MP3.
// onProgress receives values in 0..1 when the input duration is known.
// The partial output is removed when ffmpeg fails or ctx is cancelled.
func (s *Service) ExtractAudio(ctx context.Context, inputPath, outputPath string, onProgress func(float64)) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file does not exist: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{"input": inputPath, "output": outputPath})

	duration, err := s.mediaDuration(ctx, inputPath)
	if err != nil {
		// progress stays indeterminate, conversion still runs
		log.WithError(err).Warn("could not read duration, audio progress unknown")
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath, s.BuildFFmpegArgs(inputPath, outputPath)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitorProgress(stderr, duration, onProgress)
	}()

	<-done
	err = cmd.Wait()

	if ctx.Err() != nil {
		os.Remove(outputPath)
		return ctx.Err()
	}
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}

	log.Info("audio extracted")
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(inputPath, outputPath string) []string {
	return ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vn":  "",
			"c:a": AudioCodec,
			"b:a": AudioBitrate,
		}).
		GlobalArgs("-progress", ProgressPipeTarget, "-nostats").
		OverWriteOutput().
		GetArgs()
}

// AudioOutputPath returns inputPath with its extension replaced by .mp3
func AudioOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + OutputExtensionMP3
}

// TagMP3 stores the media title in the file's ID3v2 tag
func TagMP3(path, title string) error {
	if title == "" {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening id3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetTitle(title)
	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving id3 tag: %w", err)
	}
	return nil
}

type formatResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// mediaDuration returns the media duration in seconds using ffprobe
func (s *Service) mediaDuration(ctx context.Context, path string) (float64, error) {
	if s.ffprobePath == "" {
		out, err := ffmpeg.Probe(path)
		if err != nil {
			return 0, fmt.Errorf("failed to run ffprobe: %w", err)
		}
		return parseDuration(out)
	}

	out, err := exec.CommandContext(ctx, s.ffprobePath, "-show_format", "-of", "json", path).Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run %s: %w", s.ffprobePath, err)
	}
	return parseDuration(string(out))
}

func parseDuration(raw string) (float64, error) {
	var result formatResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return 0, fmt.Errorf("failed to decode ffprobe output: %w", err)
	}
	if result.Format.Duration == "" {
		return 0, errors.New("ffprobe reported no duration")
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress reads ffmpeg -progress output until the pipe closes
func monitorProgress(stderr io.Reader, totalDuration float64, onProgress func(float64)) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		progress, ok := parseProgressLine(scanner.Text(), totalDuration)
		if ok && onProgress != nil {
			onProgress(progress)
		}
	}
}

// parseProgressLine turns an out_time_us=<n> line into a 0..1 fraction
func parseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if totalDuration <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}

	microseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil {
		return 0, false
	}

	progress := float64(microseconds) / 1e6 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}
	return progress, true
}
