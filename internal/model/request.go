package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyURL is returned when the URL field is blank
	ErrEmptyURL = errors.New("media URL is empty")

	// ErrEmptyDirectory is returned when no destination folder is set
	ErrEmptyDirectory = errors.New("download directory is empty")
)

// DownloadRequest is what the form hands to the download service
type DownloadRequest struct {
	URL       string
	Format    OutputFormat
	Directory string
}

// Normalize trims surrounding whitespace from the text fields
func (r DownloadRequest) Normalize() DownloadRequest {
	r.URL = strings.TrimSpace(r.URL)
	r.Directory = strings.TrimSpace(r.Directory)
	return r
}

// Validate checks the request before a worker is spawned
func (r DownloadRequest) Validate() error {
	r = r.Normalize()
	if r.URL == "" {
		return ErrEmptyURL
	}
	if _, err := ParseOutputFormat(string(r.Format)); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if r.Directory == "" {
		return ErrEmptyDirectory
	}
	return nil
}
