package ui

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-downloader/internal/config"
	"github.com/ytget/media-downloader/internal/download"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	languageSelect *widget.Select
	engineSelect   *widget.Select
	rateLimitEntry *widget.Entry
}

// ShowSettingsDialog builds and shows the dialog; onSaved runs after a successful save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	languageNames := make([]string, 0, len(config.LanguageCodes()))
	options := config.LanguageOptions()
	for _, code := range config.LanguageCodes() {
		languageNames = append(languageNames, options[code])
	}
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	sd.engineSelect = widget.NewSelect(download.EngineNames(), nil)

	sd.rateLimitEntry = widget.NewEntry()
	sd.rateLimitEntry.SetPlaceHolder("0")
	sd.rateLimitEntry.Validator = validateRateLimit

	form := widget.NewForm(
		widget.NewFormItem(sd.localization.GetText(KeyLanguage), sd.languageSelect),
		widget.NewFormItem(sd.localization.GetText(KeyEngine), sd.engineSelect),
		widget.NewFormItem(sd.localization.GetText(KeyRateLimit), sd.rateLimitEntry),
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.languageSelect.SetSelected(config.LanguageOptions()[sd.settings.GetLanguage()])
	sd.engineSelect.SetSelected(sd.settings.GetEngine())
	sd.rateLimitEntry.SetText(strconv.FormatInt(sd.settings.GetRateLimit()/RateLimitUnit, 10))
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if err := sd.apply(); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply validates the widgets and writes them to settings
func (sd *SettingsDialog) apply() error {
	if err := validateRateLimit(sd.rateLimitEntry.Text); err != nil {
		return errors.New(sd.localization.GetText(KeyInvalidRateLimit))
	}
	kib, _ := strconv.ParseInt(strings.TrimSpace(sd.rateLimitEntry.Text), 10, 64)

	for code, name := range config.LanguageOptions() {
		if name == sd.languageSelect.Selected {
			sd.settings.SetLanguage(code)
			break
		}
	}
	if sd.engineSelect.Selected != "" {
		sd.settings.SetEngine(sd.engineSelect.Selected)
	}
	sd.settings.SetRateLimit(kib * RateLimitUnit)

	return nil
}

// validateRateLimit accepts an empty value or a non-negative integer
func validateRateLimit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return err
	}
	if value < 0 {
		return errors.New("rate limit must not be negative")
	}
	return nil
}
