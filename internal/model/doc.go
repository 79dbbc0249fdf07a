package model

// Package model defines the domain values shared by the download service and
// the UI: the requested output format, the single download task with its
// status, and the progress events reported by the download engines.
