package ui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/media-downloader/internal/config"
	"github.com/ytget/media-downloader/internal/download"
	"github.com/ytget/media-downloader/internal/model"
	"github.com/ytget/media-downloader/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	app          fyne.App
	window       fyne.Window
	downloadSvc  download.Downloader
	settings     *config.Settings
	localization *Localization
	tools        platform.Tools

	urlLabel      *widget.Label
	urlEntry      *widget.Entry
	formatLabel   *widget.Label
	formatGroup   *widget.RadioGroup
	locationLabel *widget.Label
	locationEntry *widget.Entry
	browseBtn     *widget.Button
	progressBar   *widget.ProgressBar
	statusLabel   *widget.Label
	downloadBtn   *widget.Button

	progress binding.Float
	status   binding.String
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, downloadSvc download.Downloader) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		app:          app,
		window:       window,
		downloadSvc:  downloadSvc,
		settings:     settings,
		localization: localization,
		progress:     binding.NewFloat(),
		status:       binding.NewString(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	window.SetFixedSize(true)

	// Set up callback for download updates
	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlLabel = widget.NewLabel(ui.localization.GetText(KeyURLLabel))
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	// Trigger download when user presses Enter in the URL field
	ui.urlEntry.OnSubmitted = func(string) {
		if !ui.downloadBtn.Disabled() {
			ui.onDownloadClick()
		}
	}

	ui.formatLabel = widget.NewLabel(ui.localization.GetText(KeyFormatLabel))
	ui.formatGroup = widget.NewRadioGroup(ui.formatLabels(), nil)
	ui.formatGroup.Required = true
	ui.formatGroup.SetSelected(ui.labelForFormat(ui.settings.GetFormat()))

	ui.locationLabel = widget.NewLabel(ui.localization.GetText(KeyLocationLabel))
	ui.locationEntry = widget.NewEntry()
	ui.locationEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.browseBtn = widget.NewButton(ui.localization.GetText(KeyBrowse), ui.onBrowseDirectory)
	locationRow := container.NewBorder(nil, nil, ui.locationLabel, ui.browseBtn, ui.locationEntry)

	ui.progressBar = widget.NewProgressBarWithData(ui.progress)
	ui.progressBar.Max = ProgressMax
	ui.status.Set(ui.localization.GetText(KeyReady))
	ui.statusLabel = widget.NewLabelWithData(ui.status)
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		ui.urlLabel,
		ui.urlEntry,
		ui.formatLabel,
		ui.formatGroup,
		locationRow,
		ui.progressBar,
		ui.statusLabel,
	)

	ui.window.SetContent(container.NewPadded(container.NewBorder(nil, ui.downloadBtn, nil, nil, form)))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(IconSettings+" "+ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(IconLanguage + " " + ui.localization.GetText(KeyLanguage))
	options := config.LanguageOptions()
	for _, code := range config.LanguageCodes() {
		langCode := code
		langItem := fyne.NewMenuItem(options[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.settings.GetLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// formatLabels returns the localized radio labels in model.OutputFormats order
func (ui *RootUI) formatLabels() []string {
	formats := model.OutputFormats()
	labels := make([]string, len(formats))
	for i, format := range formats {
		labels[i] = ui.labelForFormat(format)
	}
	return labels
}

// labelForFormat returns the radio label of format
func (ui *RootUI) labelForFormat(format model.OutputFormat) string {
	if format.IsAudioOnly() {
		return ui.localization.GetText(KeyFormatAudio)
	}
	return ui.localization.GetText(KeyFormatVideo)
}

// selectedFormat maps the checked radio option back to a format by position,
// so it stays valid while the options still carry the previous language
func (ui *RootUI) selectedFormat() model.OutputFormat {
	formats := model.OutputFormats()
	for i, option := range ui.formatGroup.Options {
		if option == ui.formatGroup.Selected && i < len(formats) {
			return formats[i]
		}
	}
	return model.DefaultFormat
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.settings.SetLanguage(langCode)
	ui.localization.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	format := ui.selectedFormat()

	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlLabel.SetText(ui.localization.GetText(KeyURLLabel))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.formatLabel.SetText(ui.localization.GetText(KeyFormatLabel))
	ui.formatGroup.Options = ui.formatLabels()
	ui.formatGroup.Selected = ui.labelForFormat(format)
	ui.formatGroup.Refresh()
	ui.locationLabel.SetText(ui.localization.GetText(KeyLocationLabel))
	ui.browseBtn.SetText(ui.localization.GetText(KeyBrowse))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))

	if task, ok := ui.downloadSvc.Current(); ok {
		ui.status.Set(StatusText(ui.localization, task))
	} else {
		ui.status.Set(ui.localization.GetText(KeyReady))
	}
}

// onBrowseDirectory handles directory browsing
func (ui *RootUI) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.locationEntry.SetText(uri.Path())
	}, ui.window)
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		dialog.ShowError(errors.New(ui.localization.GetText(KeyPleaseEnterURL)), ui.window)
		return
	}

	req := model.DownloadRequest{
		URL:       urlText,
		Format:    ui.selectedFormat(),
		Directory: platform.ExpandHome(strings.TrimSpace(ui.locationEntry.Text)),
	}

	ui.settings.SetFormat(req.Format)
	if req.Directory != "" {
		ui.settings.SetDownloadDirectory(req.Directory)
	}

	ui.downloadBtn.Disable()
	ui.status.Set(ui.localization.GetText(KeyPreparing))
	ui.progress.Set(0)

	logrus.WithFields(logrus.Fields{
		"url":    req.URL,
		"format": req.Format,
		"dir":    req.Directory,
	}).Debug("download clicked")

	if _, err := ui.downloadSvc.Start(req); err != nil {
		ui.complete(fmt.Sprintf(ui.localization.GetText(KeyErrorFmt), err), true)
	}
}

// onTaskUpdate handles task updates from the download service.
// It runs on the worker goroutine, so widget changes go through fyne.Do.
func (ui *RootUI) onTaskUpdate(task model.DownloadTask) {
	text := StatusText(ui.localization, task)

	fyne.Do(func() {
		switch task.Status {
		case model.TaskStatusDownloading:
			ui.progress.Set(task.Percent)
			ui.status.Set(text)
		case model.TaskStatusCompleted:
			ui.complete(text, false)
			ui.sendCompletionNotification(task)
		case model.TaskStatusError:
			ui.complete(text, true)
		default:
			ui.status.Set(text)
		}
	})
}

// complete resets the form after a download; a failed one keeps the last progress
func (ui *RootUI) complete(message string, failed bool) {
	ui.status.Set(message)
	ui.downloadBtn.Enable()
	if !failed {
		ui.progress.Set(CompletedPercentage)
	}
}

// sendCompletionNotification sends a system notification for completed downloads
func (ui *RootUI) sendCompletionNotification(task model.DownloadTask) {
	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadComplete),
		Content: task.GetDisplayTitle(),
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.onSettingsSaved)
}

// onSettingsSaved applies language and engine changes
func (ui *RootUI) onSettingsSaved() {
	if ui.localization.GetCurrentLanguage() != ui.settings.GetLanguage() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	}
	ui.applyEngine()
}

// SetTools records the executables resolved at startup and rebuilds the engine
func (ui *RootUI) SetTools(tools platform.Tools) {
	ui.tools = tools
	ui.applyEngine()
}

// applyEngine rebuilds the engine from settings and hands it to the service
func (ui *RootUI) applyEngine() {
	opts := ui.settings.EngineOptions()
	opts.FFmpegPath = ui.tools.FFmpegPath
	opts.FFprobePath = ui.tools.FFprobePath

	engine, err := download.NewEngine(ui.settings.GetEngine(), opts)
	if err != nil {
		dialog.ShowError(err, ui.window)
		return
	}
	if err := ui.downloadSvc.SetEngine(engine); err != nil {
		// the running download keeps its engine; the next one picks up settings again
		logrus.WithError(err).Warn("engine not replaced")
		return
	}
	logrus.WithField("engine", engine.Name()).Debug("engine configured")
}

// StatusText renders the status line for a task snapshot
func StatusText(loc *Localization, task model.DownloadTask) string {
	switch task.Status {
	case model.TaskStatusPending:
		return loc.GetText(KeyPreparing)
	case model.TaskStatusProbing:
		return loc.GetText(KeyFetchingInfo)
	case model.TaskStatusStarting:
		title := task.Title
		if title == "" {
			title = loc.GetText(KeyUnknownTitle)
		}
		return fmt.Sprintf(loc.GetText(KeyStartingFmt), title)
	case model.TaskStatusDownloading:
		percent := task.PercentText
		if percent == "" {
			percent = fmt.Sprintf(PercentFormat, task.Percent)
		}
		return fmt.Sprintf(loc.GetText(KeyDownloadingFmt),
			percent,
			orUnknown(loc, task.Speed),
			orUnknown(loc, task.ETA))
	case model.TaskStatusProcessing:
		return loc.GetText(KeyProcessing)
	case model.TaskStatusCompleted:
		return loc.GetText(KeyDownloadComplete)
	case model.TaskStatusError:
		return fmt.Sprintf(loc.GetText(KeyErrorFmt), task.LastError)
	default:
		return loc.GetText(KeyReady)
	}
}

func orUnknown(loc *Localization, value string) string {
	if strings.TrimSpace(value) == "" {
		return loc.GetText(KeyUnknown)
	}
	return value
}
