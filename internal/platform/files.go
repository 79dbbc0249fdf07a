package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Name handling
const (
	DownloadsDirName  = "Downloads"
	MaxNameDifference = 10
	MaxFilenameLength = 200
	DefaultFilename   = "download"
)

// Extensions of partial files left behind by the engines
var SkippedExtensions = []string{".part", ".ytdl", ".temp"}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dirPath)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, DownloadsDirName), nil
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return homeDir
	}
	return filepath.Join(homeDir, path[2:])
}

// SanitizeFilename turns a media title into a safe file name without extension
func SanitizeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "_")
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ". ")

	if runes := []rune(name); len(runes) > MaxFilenameLength {
		name = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	if name == "" {
		return DefaultFilename
	}
	return name
}

// FindFileWithFallback tries to find a file by its original path, and if not found,
// searches the same directory for a file with a similar name and the same extension.
// When nothing similar exists the newest complete file with that extension wins.
func FindFileWithFallback(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}

	if strings.HasPrefix(filePath, "http") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}

	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	originalName := filepath.Base(filePath)
	originalExt := filepath.Ext(originalName)
	baseName := strings.TrimSuffix(originalName, originalExt)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	var newest string
	var newestMod time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		entryName := entry.Name()
		entryExt := filepath.Ext(entryName)
		if entryExt != originalExt || isPartialFile(entryName) {
			continue
		}

		if isSimilarFileName(strings.TrimSuffix(entryName, entryExt), baseName) {
			candidates = append(candidates, filepath.Join(dir, entryName))
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, entryName)
			newestMod = info.ModTime()
		}
	}

	if len(candidates) > 0 {
		sort.Strings(candidates)
		return candidates[0], nil
	}

	if newest != "" {
		return newest, nil
	}

	return "", fmt.Errorf("file not found: %s", filePath)
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := strings.TrimSpace(name1)
	clean2 := strings.TrimSpace(name2)

	if clean1 == clean2 {
		return true
	}

	// downloaders prefix or suffix separators when sanitizing
	for _, sep := range []string{"-", "_", " "} {
		if clean2 == sep+clean1 || clean2 == clean1+sep || clean1 == sep+clean2 || clean1 == clean2+sep {
			return true
		}
	}

	// truncated names
	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}

func isPartialFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
