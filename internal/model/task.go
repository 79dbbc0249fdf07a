package model

import (
	"strings"
	"time"
)

// MediaInfo is what an engine learns about a URL before downloading it
type MediaInfo struct {
	ID        string
	Title     string
	Extractor string
}

// DownloadTask represents the single download started from the form
type DownloadTask struct {
	ID          string
	URL         string
	Format      OutputFormat
	Directory   string
	Status      TaskStatus
	Percent     float64 // 0 to 100
	PercentText string  // engine formatted percent, e.g. " 42.0%"
	Speed       string  // human readable speed (e.g., "1.20MiB/s")
	ETA         string  // normalized by FormatETA, "" if unknown
	Title       string  // media title
	OutputPath  string  // path to the produced file
	LastError   string  // error message if the task failed
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewDownloadTask creates a pending task for a validated request
func NewDownloadTask(id string, req DownloadRequest) *DownloadTask {
	req = req.Normalize()
	return &DownloadTask{
		ID:        id,
		URL:       req.URL,
		Format:    req.Format,
		Directory: req.Directory,
		Status:    TaskStatusPending,
		StartedAt: time.Now(),
	}
}

// Snapshot returns a copy that can be handed to another goroutine
func (dt *DownloadTask) Snapshot() DownloadTask {
	return *dt
}

// ApplyProgress copies the fields of a downloading event into the task
func (dt *DownloadTask) ApplyProgress(event ProgressEvent) {
	dt.Percent = event.Percent()
	dt.PercentText = strings.TrimSpace(event.PercentString())
	dt.Speed = strings.TrimSpace(event.SpeedString())
	dt.ETA = event.ETAString()
	if dt.Title == "" && event.Title != "" {
		dt.Title = event.Title
	}
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}
