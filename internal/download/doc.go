package download

// Package download runs the single download started from the form on a
// background goroutine. Retrieval, format selection and transcoding are
// delegated to an Engine: yt-dlp through github.com/lrstanley/go-ytdlp, or the
// pure Go github.com/ytget/ytdlp/v2 library. State changes are reported to the
// UI through an update callback carrying task snapshots.
