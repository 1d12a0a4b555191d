package app

import "github.com/cruisecg/SEOAnalysisTools/internal/model"

// TaskEvent is a status change notification for a single task.
type TaskEvent struct {
	TaskID string           `json:"task_id"`
	Status model.TaskStatus `json:"status"`
	Error  string           `json:"error,omitempty"`
}

// Watch subscribes to status changes for a task. The returned channel is
// closed after a terminal event is delivered, or when the returned cancel
// function is called. Slow consumers miss events instead of blocking the
// analysis goroutine.
func (o *Orchestrator) Watch(taskID string) (<-chan TaskEvent, func()) {
	ch := make(chan TaskEvent, 8)

	o.watchMu.Lock()
	if o.watchers[taskID] == nil {
		o.watchers[taskID] = make(map[chan TaskEvent]struct{})
	}
	o.watchers[taskID][ch] = struct{}{}
	o.watchMu.Unlock()

	cancel := func() {
		o.watchMu.Lock()
		defer o.watchMu.Unlock()
		if set, ok := o.watchers[taskID]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(o.watchers, taskID)
				}
			}
		}
	}
	return ch, cancel
}

// emit delivers an event to every watcher of the task without blocking.
// Terminal events close and remove all watchers for the task.
func (o *Orchestrator) emit(ev TaskEvent) {
	o.watchMu.Lock()
	defer o.watchMu.Unlock()

	set, ok := o.watchers[ev.TaskID]
	if !ok {
		return
	}
	for ch := range set {
		select {
		case ch <- ev:
		default:
		}
		if ev.Status.Terminal() {
			delete(set, ch)
			close(ch)
		}
	}
	if ev.Status.Terminal() {
		delete(o.watchers, ev.TaskID)
	}
}
