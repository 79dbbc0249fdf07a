package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ytget/media-downloader/internal/model"
	"github.com/ytget/media-downloader/internal/platform"
)

// TaskIDPrefix prefixes every generated task ID
const TaskIDPrefix = "task-"

var (
	// ErrBusy is returned when a download is already running
	ErrBusy = errors.New("a download is already in progress")

	// ErrCancelled is recorded when the download is cancelled by Shutdown
	ErrCancelled = errors.New("download cancelled")
)

// Service handles the download started from the form. It runs at most one
// download at a time, each on its own goroutine.
type Service struct {
	mu       sync.Mutex
	engine   Engine
	current  *model.DownloadTask
	cancel   context.CancelFunc
	onUpdate func(model.DownloadTask) // callback for UI updates
	wg       sync.WaitGroup
}

// NewService creates a new download service
func NewService(engine Engine) *Service {
	return &Service{engine: engine}
}

// SetUpdateCallback sets the callback function for task updates.
// It is invoked on the worker goroutine.
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// SetEngine replaces the engine used for the next download
func (s *Service) SetEngine(engine Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busyLocked() {
		return ErrBusy
	}
	s.engine = engine
	return nil
}

// Start validates the request and spawns the worker
func (s *Service) Start(req model.DownloadRequest) (model.DownloadTask, error) {
	if err := req.Validate(); err != nil {
		return model.DownloadTask{}, err
	}

	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return model.DownloadTask{}, ErrBusy
	}

	task := model.NewDownloadTask(generateTaskID(), req)
	ctx, cancel := context.WithCancel(context.Background())
	s.current = task
	s.cancel = cancel
	engine := s.engine
	snapshot := task.Snapshot()
	s.wg.Add(1)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"task":   task.ID,
		"url":    task.URL,
		"format": task.Format,
		"engine": engine.Name(),
	}).Info("download requested")

	go s.run(ctx, cancel, engine, task)

	return snapshot, nil
}

// Current returns a snapshot of the last started task
func (s *Service) Current() (model.DownloadTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.DownloadTask{}, false
	}
	return s.current.Snapshot(), true
}

// Busy reports whether a download is running
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busyLocked()
}

// Shutdown cancels a running download and waits for the worker to exit
func (s *Service) Shutdown() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Service) busyLocked() bool {
	return s.current != nil && !s.current.Status.IsFinished()
}

// run performs the download on the worker goroutine
func (s *Service) run(ctx context.Context, cancel context.CancelFunc, engine Engine, task *model.DownloadTask) {
	defer s.wg.Done()
	defer cancel()

	log := logrus.WithFields(logrus.Fields{"task": task.ID, "engine": engine.Name()})

	if err := platform.CreateDirectoryIfNotExists(task.Directory); err != nil {
		s.fail(task, fmt.Errorf("preparing download directory: %w", err))
		return
	}

	s.update(task, func(t *model.DownloadTask) {
		t.Status = model.TaskStatusProbing
	})

	info, err := engine.FetchInfo(ctx, task.URL)
	if err != nil {
		s.fail(task, s.cancelledOr(ctx, err))
		return
	}

	s.update(task, func(t *model.DownloadTask) {
		t.Status = model.TaskStatusStarting
		if info != nil && info.Title != "" {
			t.Title = info.Title
		}
	})
	log.WithField("title", task.Title).Info("download starting")

	req := model.DownloadRequest{URL: task.URL, Format: task.Format, Directory: task.Directory}
	outputPath, err := engine.Fetch(ctx, req, func(event model.ProgressEvent) {
		s.updateTaskProgress(task, event)
	})
	if err != nil {
		s.fail(task, s.cancelledOr(ctx, err))
		return
	}

	s.update(task, func(t *model.DownloadTask) {
		t.Status = model.TaskStatusCompleted
		t.Percent = 100
		t.PercentText = "100%"
		t.OutputPath = outputPath
		t.FinishedAt = time.Now()
	})
	log.WithField("output", outputPath).Info("download completed")
}

// updateTaskProgress applies one engine callback to the task
func (s *Service) updateTaskProgress(task *model.DownloadTask, event model.ProgressEvent) {
	switch event.Status {
	case model.ProgressFinished:
		s.update(task, func(t *model.DownloadTask) {
			if event.Title != "" && t.Title == "" {
				t.Title = event.Title
			}
			t.Status = model.TaskStatusProcessing
		})
	default:
		s.update(task, func(t *model.DownloadTask) {
			t.ApplyProgress(event)
			t.Status = model.TaskStatusDownloading
		})
	}
}

// update mutates the task under the lock and notifies with a snapshot
func (s *Service) update(task *model.DownloadTask, mutate func(*model.DownloadTask)) {
	s.mu.Lock()
	mutate(task)
	snapshot := task.Snapshot()
	callback := s.onUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// fail marks the task as failed
func (s *Service) fail(task *model.DownloadTask, err error) {
	logrus.WithField("task", task.ID).WithError(err).Error("download failed")

	s.update(task, func(t *model.DownloadTask) {
		t.Status = model.TaskStatusError
		t.LastError = err.Error()
		t.FinishedAt = time.Now()
	})
}

// cancelledOr maps errors caused by cancellation to ErrCancelled
func (s *Service) cancelledOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return err
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
