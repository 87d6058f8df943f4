// Package business tracks in-flight cross-cutting operations such as a site
// switch. The queue only records tasks; whoever performs a task finishes it.
package business

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/3-lines-studio/monocle/internal/core"
)

// Task is one pending occurrence of a task identifier.
type Task struct {
	ID      string
	Ref     uuid.UUID
	AddedAt time.Time
}

type Queue struct {
	mu    sync.RWMutex
	tasks []Task
	now   func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Apply reduces AddTask and FinishTask messages.
func (q *Queue) Apply(msg core.Message) {
	switch m := msg.(type) {
	case core.AddTask:
		q.Add(m.TaskID)
	case core.FinishTask:
		q.Finish(m.TaskID)
	}
}

func (q *Queue) Add(id string) Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	task := Task{ID: id, Ref: uuid.New(), AddedAt: q.now()}
	q.tasks = append(q.tasks, task)
	return task
}

// Finish removes the oldest pending occurrence of id and reports whether
// one was pending.
func (q *Queue) Finish(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, task := range q.tasks {
		if task.ID == id {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// FinishRef removes the occurrence with the given reference.
func (q *Queue) FinishRef(ref uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, task := range q.tasks {
		if task.Ref == ref {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) IsPending(id string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, task := range q.tasks {
		if task.ID == id {
			return true
		}
	}
	return false
}

// Pending returns a copy of all pending tasks in insertion order.
func (q *Queue) Pending() []Task {
	q.mu.RLock()
	defer q.mu.RUnlock()

	tasks := make([]Task, len(q.tasks))
	copy(tasks, q.tasks)
	return tasks
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.tasks)
}
