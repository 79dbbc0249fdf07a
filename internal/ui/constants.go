package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Window sizing
const (
	WindowWidth  float32 = 600
	WindowHeight float32 = 350

	SettingsDialogWidth  float32 = 420
	SettingsDialogHeight float32 = 300
)

// Progress display
const (
	ProgressMax         = 100.0
	PercentFormat       = "%.1f%%"
	CompletedPercentage = 100.0
)

// RateLimitUnit converts the KiB/s shown in settings to bytes per second
const RateLimitUnit = 1024

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconLanguage = "🌐"
)
