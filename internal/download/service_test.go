package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-downloader/internal/model"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

// fakeEngine scripts the library boundary
type fakeEngine struct {
	mu       sync.Mutex
	info     *model.MediaInfo
	infoErr error
	events   []model.ProgressEvent
	output   string
	fetchErr error
	block    chan struct{}
	gotReq   model.DownloadRequest
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) FetchInfo(ctx context.Context, url string) (*model.MediaInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeEngine) Fetch(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc) (string, error) {
	f.mu.Lock()
	f.gotReq = req
	f.mu.Unlock()

	for _, event := range f.events {
		onProgress(event)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.output, f.fetchErr
}

func (f *fakeEngine) request() model.DownloadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotReq
}

// recorder collects update snapshots
type recorder struct {
	mu      sync.Mutex
	updates []model.DownloadTask
}

func (r *recorder) record(task model.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, task)
}

func (r *recorder) statuses() []model.TaskStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TaskStatus
	for _, u := range r.updates {
		if len(out) == 0 || out[len(out)-1] != u.Status {
			out = append(out, u.Status)
		}
	}
	return out
}

func (r *recorder) last() (model.DownloadTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return model.DownloadTask{}, false
	}
	return r.updates[len(r.updates)-1], true
}

func finished(r *recorder) func() bool {
	return func() bool {
		task, ok := r.last()
		return ok && task.Status.IsFinished()
	}
}

func newRequest(t *testing.T, format model.OutputFormat) model.DownloadRequest {
	return model.DownloadRequest{
		URL:       " https://youtube.com/watch?v=test ",
		Format:    format,
		Directory: t.TempDir(),
	}
}

func TestNewService(t *testing.T) {
	engine := &fakeEngine{}
	service := NewService(engine)

	assert.Equal(t, engine, service.engine)
	assert.False(t, service.Busy())

	_, ok := service.Current()
	assert.False(t, ok)
}

func TestStart_ValidatesRequest(t *testing.T) {
	service := NewService(&fakeEngine{})

	_, err := service.Start(model.DownloadRequest{URL: "   ", Format: model.FormatMP4, Directory: "/tmp"})
	assert.ErrorIs(t, err, model.ErrEmptyURL)

	_, err = service.Start(model.DownloadRequest{URL: "https://x.test/v", Format: model.FormatMP4})
	assert.ErrorIs(t, err, model.ErrEmptyDirectory)

	assert.False(t, service.Busy())
	_, ok := service.Current()
	assert.False(t, ok, "rejected requests must not create a task")
}

func TestStart_RunsToCompletion(t *testing.T) {
	engine := &fakeEngine{
		info: &model.MediaInfo{Title: "Lecture 1"},
		events: []model.ProgressEvent{
			{Status: model.ProgressDownloading, DownloadedBytes: 10, TotalBytes: 100},
			{Status: model.ProgressDownloading, DownloadedBytes: 50, TotalBytesEstimate: 100, SpeedText: "1.00MiB/s", ETAText: "65"},
			{Status: model.ProgressFinished},
		},
		output: "/downloads/Lecture 1.mp4",
	}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	req := newRequest(t, model.FormatMP4)
	task, err := service.Start(req)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.True(t, strings.HasPrefix(task.ID, TaskIDPrefix))
	assert.Equal(t, "https://youtube.com/watch?v=test", task.URL)

	require.Eventually(t, finished(rec), waitFor, tick)

	assert.Equal(t, []model.TaskStatus{
		model.TaskStatusProbing,
		model.TaskStatusStarting,
		model.TaskStatusDownloading,
		model.TaskStatusProcessing,
		model.TaskStatusCompleted,
	}, rec.statuses())

	final, _ := rec.last()
	assert.Equal(t, task.ID, final.ID)
	assert.Equal(t, "Lecture 1", final.Title)
	assert.Equal(t, float64(100), final.Percent)
	assert.Equal(t, "/downloads/Lecture 1.mp4", final.OutputPath)
	assert.False(t, final.FinishedAt.IsZero())

	got := engine.request()
	assert.Equal(t, "https://youtube.com/watch?v=test", got.URL)
	assert.Equal(t, model.FormatMP4, got.Format)
	assert.Equal(t, req.Directory, got.Directory)

	assert.False(t, service.Busy())
	current, ok := service.Current()
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusCompleted, current.Status)
}

func TestStart_ProgressUpdatesCarryText(t *testing.T) {
	engine := &fakeEngine{
		info: &model.MediaInfo{},
		events: []model.ProgressEvent{
			{Status: model.ProgressDownloading, DownloadedBytes: 50, TotalBytesEstimate: 200, SpeedText: "2.00MiB/s", ETAText: "[125]"},
		},
	}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	_, err := service.Start(newRequest(t, model.FormatMP3))
	require.NoError(t, err)
	require.Eventually(t, finished(rec), waitFor, tick)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	var downloading *model.DownloadTask
	for i := range rec.updates {
		if rec.updates[i].Status == model.TaskStatusDownloading {
			downloading = &rec.updates[i]
			break
		}
	}
	require.NotNil(t, downloading)
	assert.Equal(t, float64(25), downloading.Percent)
	assert.Equal(t, "25.0%", downloading.PercentText)
	assert.Equal(t, "2.00MiB/s", downloading.Speed)
	assert.Equal(t, "2:05", downloading.ETA)
}

func TestStart_RejectsWhileBusy(t *testing.T) {
	engine := &fakeEngine{info: &model.MediaInfo{}, block: make(chan struct{})}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	_, err := service.Start(newRequest(t, model.FormatMP4))
	require.NoError(t, err)
	assert.True(t, service.Busy())

	_, err = service.Start(newRequest(t, model.FormatMP3))
	assert.ErrorIs(t, err, ErrBusy)

	assert.ErrorIs(t, service.SetEngine(&fakeEngine{}), ErrBusy)

	close(engine.block)
	require.Eventually(t, finished(rec), waitFor, tick)
	assert.False(t, service.Busy())

	// a finished download frees the slot
	_, err = service.Start(newRequest(t, model.FormatMP3))
	assert.NoError(t, err)
	service.Shutdown()
}

func TestShutdown_CancelsRunningDownload(t *testing.T) {
	engine := &fakeEngine{info: &model.MediaInfo{}, block: make(chan struct{})}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	_, err := service.Start(newRequest(t, model.FormatMP4))
	require.NoError(t, err)

	service.Shutdown()

	final, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusError, final.Status)
	assert.Equal(t, ErrCancelled.Error(), final.LastError)
	assert.False(t, service.Busy())
}

func TestStart_InfoError(t *testing.T) {
	engine := &fakeEngine{infoErr: errors.New("Unsupported URL: https://x.test")}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	_, err := service.Start(newRequest(t, model.FormatMP4))
	require.NoError(t, err)
	require.Eventually(t, finished(rec), waitFor, tick)

	final, _ := rec.last()
	assert.Equal(t, model.TaskStatusError, final.Status)
	assert.Equal(t, "Unsupported URL: https://x.test", final.LastError)
	assert.Equal(t, []model.TaskStatus{model.TaskStatusProbing, model.TaskStatusError}, rec.statuses())
}

func TestStart_FetchErrorKeepsProgress(t *testing.T) {
	engine := &fakeEngine{
		info:     &model.MediaInfo{Title: "Clip"},
		events:   []model.ProgressEvent{{Status: model.ProgressDownloading, DownloadedBytes: 30, TotalBytes: 100}},
		fetchErr: errors.New("HTTP Error 403: Forbidden"),
	}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	_, err := service.Start(newRequest(t, model.FormatMP4))
	require.NoError(t, err)
	require.Eventually(t, finished(rec), waitFor, tick)

	final, _ := rec.last()
	assert.Equal(t, model.TaskStatusError, final.Status)
	assert.Equal(t, "HTTP Error 403: Forbidden", final.LastError)
	assert.Equal(t, float64(30), final.Percent)
}

func TestStart_CreatesDirectory(t *testing.T) {
	engine := &fakeEngine{info: &model.MediaInfo{}}
	service := NewService(engine)
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	dir := filepath.Join(t.TempDir(), "new", "folder")
	_, err := service.Start(model.DownloadRequest{URL: "https://x.test/v", Format: model.FormatMP4, Directory: dir})
	require.NoError(t, err)
	require.Eventually(t, finished(rec), waitFor, tick)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStart_DirectoryError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	service := NewService(&fakeEngine{})
	rec := &recorder{}
	service.SetUpdateCallback(rec.record)

	_, err := service.Start(model.DownloadRequest{URL: "https://x.test/v", Format: model.FormatMP4, Directory: blocker})
	require.NoError(t, err)
	require.Eventually(t, finished(rec), waitFor, tick)

	final, _ := rec.last()
	assert.Equal(t, model.TaskStatusError, final.Status)
	assert.Contains(t, final.LastError, "preparing download directory")
}

func TestSetEngine(t *testing.T) {
	service := NewService(&fakeEngine{})
	other := &fakeEngine{}

	require.NoError(t, service.SetEngine(other))
	assert.Equal(t, other, service.engine)
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	if !strings.HasPrefix(id1, TaskIDPrefix) {
		t.Errorf("Expected ID to start with '%s', got: %s", TaskIDPrefix, id1)
	}

	// task- + 36 chars for UUID
	if len(id1) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(id1), id1)
	}
}
