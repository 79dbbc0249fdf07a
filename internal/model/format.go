package model

import (
	"fmt"
	"strings"
)

// OutputFormat is the container the user asked for
type OutputFormat string

const (
	// FormatMP4 keeps video and audio in an MP4 container
	FormatMP4 OutputFormat = "mp4"

	// FormatMP3 keeps only the audio track, encoded as MP3
	FormatMP3 OutputFormat = "mp3"
)

// DefaultFormat is preselected in the form
const DefaultFormat = FormatMP4

// ParseOutputFormat converts a stored or user supplied value into an OutputFormat
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case FormatMP4:
		return FormatMP4, nil
	case FormatMP3:
		return FormatMP3, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", value)
	}
}

// OutputFormats lists the formats offered in the form, in display order
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatMP4, FormatMP3}
}

// IsAudioOnly reports whether the video stream is discarded
func (f OutputFormat) IsAudioOnly() bool {
	return f == FormatMP3
}

// Extension returns the file extension with the leading dot
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	return string(f)
}
