// Package calendar merges persisted calendar events with task due dates into
// one renderable sequence.
//
// Task projections are represented as a distinct Item kind rather than as
// CalendarEvents with partitioned ids, so a real event id can never collide
// with a projected task. The legacy flat wire shape, which does use an id
// offset, is produced only at the edge by Flatten.
package calendar

import (
	"strconv"
	"time"

	"github.com/straye-as/relation-sync/internal/domain"
)

// Kind distinguishes persisted events from task projections
type Kind string

const (
	KindEvent Kind = "event"
	KindTask  Kind = "task"
)

// Item is one renderable calendar entry: exactly one of Event or Task is set
type Item struct {
	Kind  Kind                  `json:"kind"`
	Event *domain.CalendarEvent `json:"event,omitempty"`
	Task  *Projection           `json:"task,omitempty"`
}

// Projection is the calendar view of a task's due date. It is never persisted.
type Projection struct {
	TaskID      int64               `json:"task_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Start       string              `json:"start_date"`
	End         string              `json:"end_date"`
	Priority    domain.TaskPriority `json:"priority,omitempty"`
	Status      domain.TaskStatus   `json:"task_status,omitempty"`
	ClientID    *int64              `json:"client_id,omitempty"`
	ProjectedAt string              `json:"projected_at"`
}

// EventItem wraps a persisted event
func EventItem(e domain.CalendarEvent) Item {
	return Item{Kind: KindEvent, Event: &e}
}

// TaskKeyPrefix marks store keys that belong to task projections
const TaskKeyPrefix = "task:"

// TaskKey returns the store key of a task projection
func TaskKey(taskID int64) string {
	return TaskKeyPrefix + strconv.FormatInt(taskID, 10)
}

// RecordKey implements domain.Entity. Persisted events keep their plain id key
// so store lookups by event id work; projections live in a prefixed key space.
func (i Item) RecordKey() string {
	if i.Kind == KindTask && i.Task != nil {
		return TaskKey(i.Task.TaskID)
	}
	if i.Event != nil {
		return domain.IDKey(i.Event.ID)
	}
	return ""
}

// IsDerived reports whether the item was projected from a task.
// A persisted event that references a task is not derived.
func (i Item) IsDerived() bool {
	return i.Kind == KindTask
}

// TaskID returns the linked task id for both kinds, if any
func (i Item) TaskID() (int64, bool) {
	switch {
	case i.Kind == KindTask && i.Task != nil:
		return i.Task.TaskID, true
	case i.Event != nil && i.Event.TaskID != nil:
		return *i.Event.TaskID, true
	}
	return 0, false
}

// Title returns the display title
func (i Item) Title() string {
	if i.IsDerived() {
		return i.Task.Title
	}
	if i.Event != nil {
		return i.Event.Title
	}
	return ""
}

// StartDate returns the raw ISO start
func (i Item) StartDate() string {
	if i.IsDerived() {
		return i.Task.Start
	}
	if i.Event != nil {
		return i.Event.StartDate
	}
	return ""
}

// Start returns the parsed start time; zero if unparseable
func (i Item) Start() time.Time {
	t, err := domain.ParseTime(i.StartDate())
	if err != nil {
		return time.Time{}
	}
	return t
}

// ClientID returns the linked client, if any
func (i Item) ClientID() *int64 {
	if i.IsDerived() {
		return i.Task.ClientID
	}
	if i.Event != nil {
		return i.Event.ClientID
	}
	return nil
}

// ProjectTask turns a task into a calendar projection anchored at its due date.
// Tasks without a due date have no calendar presence and yield false.
func ProjectTask(t domain.Task, now time.Time) (Item, bool) {
	if !t.HasDueDate() {
		return Item{}, false
	}
	return Item{
		Kind: KindTask,
		Task: &Projection{
			TaskID:      t.ID,
			Title:       t.Title,
			Description: t.Description,
			Start:       t.DueDate,
			End:         t.DueDate,
			Priority:    t.Priority,
			Status:      t.Status,
			ClientID:    t.ClientID,
			ProjectedAt: domain.FormatTime(now),
		},
	}, true
}
