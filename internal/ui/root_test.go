package ui

import (
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-downloader/internal/config"
	"github.com/ytget/media-downloader/internal/download"
	"github.com/ytget/media-downloader/internal/model"
	"github.com/ytget/media-downloader/internal/platform"
)

// fakeDownloader records what the form asks for
type fakeDownloader struct {
	mu       sync.Mutex
	callback func(model.DownloadTask)
	requests []model.DownloadRequest
	startErr error
	engine   download.Engine
	current  *model.DownloadTask
}

func (f *fakeDownloader) SetUpdateCallback(cb func(model.DownloadTask)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = cb
}

func (f *fakeDownloader) Start(req model.DownloadRequest) (model.DownloadTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.startErr != nil {
		return model.DownloadTask{}, f.startErr
	}
	task := model.NewDownloadTask("task-1", req)
	f.current = task
	return *task, nil
}

func (f *fakeDownloader) Current() (model.DownloadTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return model.DownloadTask{}, false
	}
	return *f.current, true
}

func (f *fakeDownloader) Busy() bool { return false }

func (f *fakeDownloader) SetEngine(engine download.Engine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engine = engine
	return nil
}

func (f *fakeDownloader) Shutdown() {}

func newTestUI(t *testing.T) (*RootUI, *fakeDownloader, *config.Settings) {
	t.Helper()

	app := test.NewApp()
	t.Cleanup(func() { app.Quit() })

	settings := config.NewSettings(app)
	settings.SetLanguage("en")
	settings.SetDownloadDirectory(t.TempDir())

	svc := &fakeDownloader{}
	ui := NewRootUI(app.NewWindow("test"), app, settings, svc)
	return ui, svc, settings
}

func statusOf(t *testing.T, ui *RootUI) string {
	t.Helper()
	text, err := ui.status.Get()
	require.NoError(t, err)
	return text
}

func progressOf(t *testing.T, ui *RootUI) float64 {
	t.Helper()
	value, err := ui.progress.Get()
	require.NoError(t, err)
	return value
}

func TestNewRootUI(t *testing.T) {
	ui, svc, settings := newTestUI(t)

	assert.Equal(t, "Media Downloader", ui.window.Title())
	assert.Equal(t, "Ready", statusOf(t, ui))
	assert.Equal(t, "Video (mp4)", ui.formatGroup.Selected)
	assert.Equal(t, []string{"Video (mp4)", "Audio (mp3)"}, ui.formatGroup.Options)
	assert.Equal(t, settings.GetDownloadDirectory(), ui.locationEntry.Text)
	assert.Equal(t, ProgressMax, ui.progressBar.Max)
	assert.False(t, ui.downloadBtn.Disabled())
	assert.NotNil(t, svc.callback, "service callback must be wired")
}

func TestNewRootUI_RestoresFormat(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	settings := config.NewSettings(app)
	settings.SetLanguage("en")
	settings.SetFormat(model.FormatMP3)

	ui := NewRootUI(app.NewWindow("test"), app, settings, &fakeDownloader{})
	assert.Equal(t, "Audio (mp3)", ui.formatGroup.Selected)
	assert.Equal(t, model.FormatMP3, ui.selectedFormat())
}

func TestDownloadClick_EmptyURL(t *testing.T) {
	ui, svc, _ := newTestUI(t)

	ui.urlEntry.SetText("   ")
	test.Tap(ui.downloadBtn)

	assert.Empty(t, svc.requests)
	assert.False(t, ui.downloadBtn.Disabled())
	assert.Equal(t, "Ready", statusOf(t, ui))
	assert.NotNil(t, ui.window.Canvas().Overlays().Top(), "error dialog expected")
}

func TestDownloadClick_StartsDownload(t *testing.T) {
	ui, svc, settings := newTestUI(t)
	dir := t.TempDir()

	ui.urlEntry.SetText("  https://www.youtube.com/watch?v=abc  ")
	ui.formatGroup.SetSelected("Audio (mp3)")
	ui.locationEntry.SetText(dir)
	ui.progress.Set(55)

	test.Tap(ui.downloadBtn)

	require.Len(t, svc.requests, 1)
	assert.Equal(t, model.DownloadRequest{
		URL:       "https://www.youtube.com/watch?v=abc",
		Format:    model.FormatMP3,
		Directory: dir,
	}, svc.requests[0])

	assert.True(t, ui.downloadBtn.Disabled())
	assert.Equal(t, "Preparing download...", statusOf(t, ui))
	assert.Equal(t, float64(0), progressOf(t, ui))

	assert.Equal(t, model.FormatMP3, settings.GetFormat())
	assert.Equal(t, dir, settings.GetDownloadDirectory())

	// button is disabled, so a second tap does nothing
	test.Tap(ui.downloadBtn)
	assert.Len(t, svc.requests, 1)
}

func TestDownloadClick_StartError(t *testing.T) {
	ui, svc, _ := newTestUI(t)
	svc.startErr = download.ErrBusy

	ui.urlEntry.SetText("https://www.youtube.com/watch?v=abc")
	test.Tap(ui.downloadBtn)

	assert.Equal(t, "Error: "+download.ErrBusy.Error(), statusOf(t, ui))
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestOnTaskUpdate_Lifecycle(t *testing.T) {
	ui, _, _ := newTestUI(t)
	ui.urlEntry.SetText("https://www.youtube.com/watch?v=abc")
	test.Tap(ui.downloadBtn)

	task := model.DownloadTask{ID: "task-1", Status: model.TaskStatusProbing}
	ui.onTaskUpdate(task)
	assert.Equal(t, "Fetching media info...", statusOf(t, ui))

	task.Status = model.TaskStatusStarting
	ui.onTaskUpdate(task)
	assert.Equal(t, "Starting download: Unknown title", statusOf(t, ui))

	task.Status = model.TaskStatusDownloading
	task.Title = "Clip"
	task.Percent = 42
	task.PercentText = "42.0%"
	task.Speed = "1.00MiB/s"
	ui.onTaskUpdate(task)
	assert.Equal(t, "Downloading: 42.0% Speed: 1.00MiB/s ETA: unknown", statusOf(t, ui))
	assert.Equal(t, float64(42), progressOf(t, ui))
	assert.True(t, ui.downloadBtn.Disabled())

	task.Status = model.TaskStatusProcessing
	ui.onTaskUpdate(task)
	assert.Equal(t, "Download finished, processing file...", statusOf(t, ui))

	task.Status = model.TaskStatusCompleted
	ui.onTaskUpdate(task)
	assert.Equal(t, "Download complete!", statusOf(t, ui))
	assert.Equal(t, float64(100), progressOf(t, ui))
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestOnTaskUpdate_ErrorKeepsProgress(t *testing.T) {
	ui, _, _ := newTestUI(t)
	ui.urlEntry.SetText("https://www.youtube.com/watch?v=abc")
	test.Tap(ui.downloadBtn)

	ui.onTaskUpdate(model.DownloadTask{Status: model.TaskStatusDownloading, Percent: 30, PercentText: "30.0%"})
	ui.onTaskUpdate(model.DownloadTask{Status: model.TaskStatusError, LastError: "HTTP Error 403: Forbidden"})

	assert.Equal(t, "Error: HTTP Error 403: Forbidden", statusOf(t, ui))
	assert.Equal(t, float64(30), progressOf(t, ui))
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestStatusText(t *testing.T) {
	loc := NewLocalization()

	tests := []struct {
		name string
		task model.DownloadTask
		want string
	}{
		{"pending", model.DownloadTask{Status: model.TaskStatusPending}, "Preparing download..."},
		{"probing", model.DownloadTask{Status: model.TaskStatusProbing}, "Fetching media info..."},
		{"starting with title", model.DownloadTask{Status: model.TaskStatusStarting, Title: "Lecture"}, "Starting download: Lecture"},
		{"starting without title", model.DownloadTask{Status: model.TaskStatusStarting}, "Starting download: Unknown title"},
		{
			"downloading",
			model.DownloadTask{Status: model.TaskStatusDownloading, PercentText: "12.5%", Speed: "2.00MiB/s", ETA: "1:05"},
			"Downloading: 12.5% Speed: 2.00MiB/s ETA: 1:05",
		},
		{
			"downloading without text",
			model.DownloadTask{Status: model.TaskStatusDownloading, Percent: 7.26},
			"Downloading: 7.3% Speed: unknown ETA: unknown",
		},
		{"processing", model.DownloadTask{Status: model.TaskStatusProcessing}, "Download finished, processing file..."},
		{"completed", model.DownloadTask{Status: model.TaskStatusCompleted}, "Download complete!"},
		{"error", model.DownloadTask{Status: model.TaskStatusError, LastError: "boom"}, "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(loc, tt.task))
		})
	}
}

func TestStatusText_Chinese(t *testing.T) {
	loc := NewLocalization()
	loc.SetLanguage("zh-TW")

	task := model.DownloadTask{Status: model.TaskStatusDownloading, PercentText: "50.0%", Speed: "1.00MiB/s", ETA: "0:30"}
	assert.Equal(t, "下載中: 50.0% 速度: 1.00MiB/s 剩餘時間: 0:30", StatusText(loc, task))

	task = model.DownloadTask{Status: model.TaskStatusStarting}
	assert.Equal(t, "開始下載: 未知標題", StatusText(loc, task))
}

func TestLanguageChange(t *testing.T) {
	ui, _, settings := newTestUI(t)
	ui.formatGroup.SetSelected("Audio (mp3)")

	ui.onLanguageChange("zh-TW")

	assert.Equal(t, "zh-TW", settings.GetLanguage())
	assert.Equal(t, "影音下載器", ui.window.Title())
	assert.Equal(t, "開始下載", ui.downloadBtn.Text)
	assert.Equal(t, "瀏覽", ui.browseBtn.Text)
	assert.Equal(t, []string{"視訊格式 (mp4)", "音訊格式 (mp3)"}, ui.formatGroup.Options)
	assert.Equal(t, "音訊格式 (mp3)", ui.formatGroup.Selected)
	assert.Equal(t, model.FormatMP3, ui.selectedFormat())
	assert.Equal(t, "準備下載", statusOf(t, ui))
}

func TestLanguageChange_DownloadKeepsAudioFormat(t *testing.T) {
	ui, svc, _ := newTestUI(t)
	ui.formatGroup.SetSelected("Audio (mp3)")

	ui.onLanguageChange("ru")

	assert.Equal(t, "Аудио (mp3)", ui.formatGroup.Selected)

	ui.urlEntry.SetText("https://www.youtube.com/watch?v=abc")
	test.Tap(ui.downloadBtn)

	require.Len(t, svc.requests, 1)
	assert.Equal(t, model.FormatMP3, svc.requests[0].Format)
}

func TestSettingsSaved_LanguageKeepsAudioFormat(t *testing.T) {
	ui, _, settings := newTestUI(t)
	ui.formatGroup.SetSelected("Audio (mp3)")

	settings.SetLanguage("pt")
	ui.onSettingsSaved()

	assert.Equal(t, "Áudio (mp3)", ui.formatGroup.Selected)
	assert.Equal(t, model.FormatMP3, ui.selectedFormat())
}

func TestCreateMenu_Icons(t *testing.T) {
	ui, _, _ := newTestUI(t)

	menu := ui.window.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, IconSettings+" Settings", menu.Items[0].Items[0].Label)
	assert.Equal(t, IconLanguage+" Language", menu.Items[1].Label)
	assert.Len(t, menu.Items[1].Items, len(config.LanguageCodes()))
}

func TestApplyEngine(t *testing.T) {
	ui, svc, settings := newTestUI(t)

	settings.SetEngine(download.EngineNative)
	ui.SetTools(platform.Tools{FFmpegPath: "/opt/ffmpeg/bin/ffmpeg", FFprobePath: "/opt/ffmpeg/bin/ffprobe"})

	require.NotNil(t, svc.engine)
	assert.Equal(t, download.EngineNative, svc.engine.Name())

	settings.SetEngine(download.EngineYTDLP)
	ui.onSettingsSaved()
	assert.Equal(t, download.EngineYTDLP, svc.engine.Name())
}

func TestCompactTheme(t *testing.T) {
	th := NewCompactTheme()

	assert.Equal(t, float32(3), th.Size(theme.SizeNamePadding))
	assert.Equal(t, float32(13), th.Size(theme.SizeNameText))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameScrollBar), th.Size(theme.SizeNameScrollBar))
	assert.NotNil(t, th.Color(theme.ColorNamePrimary, theme.VariantLight))
	assert.NotNil(t, th.Font(fyne.TextStyle{}))
}
