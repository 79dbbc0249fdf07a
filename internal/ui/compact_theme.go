package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// compactSizes shrinks padding and text so the form fits the fixed window
var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:      3,
	theme.SizeNameInnerPadding: 6,
	theme.SizeNameLineSpacing:  2,
	theme.SizeNameText:         13,
	theme.SizeNameHeadingText:  16,
	theme.SizeNameCaptionText:  10,
	theme.SizeNameInputRadius:  3,
}

// CompactTheme wraps a base theme with reduced sizes and a blue primary color
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a compact variant of the default theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.RGBA{R: 25, G: 118, B: 210, A: 255}
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns the compact size when one is defined
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := compactSizes[name]; ok {
		return size
	}
	return t.base.Size(name)
}
