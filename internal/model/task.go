package model

import "time"

// TaskStatus is the lifecycle state of an analysis task. Transitions are
// forward-only: queued -> running -> done|failed.
type TaskStatus string

const (
	TaskQueued  TaskStatus = "queued"
	TaskRunning TaskStatus = "running"
	TaskDone    TaskStatus = "done"
	TaskFailed  TaskStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s TaskStatus) Terminal() bool {
	return s == TaskDone || s == TaskFailed
}

// Task is one analysis job and its outcome. The orchestrator is the sole
// writer; API readers must treat it as immutable.
type Task struct {
	ID     string     `json:"id"`
	Status TaskStatus `json:"status"`

	// RequestedURL is the input URL as submitted; FinalURL is set only on
	// success, after redirects were followed.
	RequestedURL string `json:"requested_url"`
	FinalURL     string `json:"final_url,omitempty"`

	// Result fields, set only when Status == done.
	OverallScore int          `json:"overall_score"`
	Grade        Grade        `json:"grade,omitempty"`
	Checks       []CheckGroup `json:"checks,omitempty"`
	Warnings     []string     `json:"warnings,omitempty"`

	// ErrorMessage is set only when Status == failed, and is never empty then.
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskResult bundles the fields written on the done transition.
type TaskResult struct {
	FinalURL     string
	OverallScore int
	Grade        Grade
	Checks       []CheckGroup
	Warnings     []string
}

// Grade is the letter grade derived from the overall score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)
