package platform

// Package platform contains OS integration and external tooling glue:
// download folder discovery, filename handling, and installation of the
// yt-dlp and ffmpeg executables the download engines shell out to.
