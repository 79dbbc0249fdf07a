package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockHMS = regexp.MustCompile(`^\d+:\d+:\d+$`)
	clockMS  = regexp.MustCompile(`^\d+:\d+$`)
	digits   = regexp.MustCompile(`^\d+$`)
)

// FormatETA normalizes an ETA reported by an engine.
//
// Brackets are stripped, clock values pass through, a bare number of seconds
// becomes M:SS or H:MM:SS, and anything else is returned unchanged. An empty
// input yields "" so the caller can render its own "unknown" text.
func FormatETA(raw string) string {
	eta := strings.TrimSpace(raw)
	if eta == "" {
		return ""
	}

	eta = strings.ReplaceAll(eta, "[", "")
	eta = strings.ReplaceAll(eta, "]", "")

	switch {
	case clockHMS.MatchString(eta), clockMS.MatchString(eta):
		return eta
	case digits.MatchString(eta):
		seconds, err := strconv.Atoi(eta)
		if err != nil {
			return eta
		}
		minutes, seconds := seconds/60, seconds%60
		hours, minutes := minutes/60, minutes%60
		if hours > 0 {
			return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
		}
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	default:
		return eta
	}
}

var speedUnits = []string{"B/s", "KiB/s", "MiB/s", "GiB/s"}

// FormatSpeed renders a transfer rate the way yt-dlp prints it, e.g. "1.50MiB/s".
// Unknown or zero rates yield "".
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return ""
	}

	value := bytesPerSecond
	unit := 0
	for value >= 1024 && unit < len(speedUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f%s", value, speedUnits[unit])
}
