package transcode

// Package transcode turns a downloaded MP4 into an MP3 with ffmpeg when the
// selected engine cannot post-process on its own, and tags the result.
