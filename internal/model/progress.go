package model

import (
	"fmt"
	"time"
)

// ProgressStatus mirrors the phase reported by a download engine
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent is a single progress callback from an engine.
// Byte counts are zero when the engine does not know them; the *Text fields
// carry the engine's own preformatted values when it provides them.
type ProgressEvent struct {
	Status             ProgressStatus
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	BytesPerSecond     float64
	ETA                time.Duration
	Title              string

	PercentText string
	SpeedText   string
	ETAText     string
}

// Percent returns completion in the range 0..100.
// The exact total wins over the estimate; with neither the result is 0.
func (e ProgressEvent) Percent() float64 {
	var total int64
	switch {
	case e.TotalBytes > 0:
		total = e.TotalBytes
	case e.TotalBytesEstimate > 0:
		total = e.TotalBytesEstimate
	default:
		return 0
	}

	percent := float64(e.DownloadedBytes) / float64(total) * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}

// PercentString returns the engine's percent text or a formatted Percent
func (e ProgressEvent) PercentString() string {
	if e.PercentText != "" {
		return e.PercentText
	}
	return fmt.Sprintf("%.1f%%", e.Percent())
}

// SpeedString returns the engine's speed text or a formatted BytesPerSecond
func (e ProgressEvent) SpeedString() string {
	if e.SpeedText != "" {
		return e.SpeedText
	}
	return FormatSpeed(e.BytesPerSecond)
}

// ETAString returns the normalized ETA, "" when unknown
func (e ProgressEvent) ETAString() string {
	if e.ETAText != "" {
		return FormatETA(e.ETAText)
	}
	if e.ETA <= 0 {
		return ""
	}
	return FormatETA(fmt.Sprintf("%d", int64(e.ETA.Seconds())))
}
