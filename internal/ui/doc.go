// Package ui contains the Fyne desktop form: URL entry, format choice, destination
// folder, progress bar and status line. Worker updates reach it through fyne.Do.
// All UI strings are localized via Localization.
package ui
