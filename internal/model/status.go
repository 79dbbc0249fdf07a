package model

// TaskStatus represents the status of the download task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but the worker has not run yet
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusProbing means media information is being fetched
	TaskStatusProbing TaskStatus = "Probing"

	// TaskStatusStarting means the title is known and the transfer is about to begin
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means the transfer is reporting progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusProcessing means the transfer finished and post-processing runs
	TaskStatusProcessing TaskStatus = "Processing"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while the worker owns the task
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusProbing, TaskStatusStarting, TaskStatusDownloading, TaskStatusProcessing:
		return true
	}
	return false
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
