package store

import (
	"sync"
	"time"

	"github.com/straye-as/relation-sync/internal/calendar"
	"github.com/straye-as/relation-sync/internal/domain"
)

// ClientFilters are the client list filters
type ClientFilters struct {
	Lead       domain.LeadStatus `json:"lead,omitempty"`
	SearchTerm string            `json:"searchTerm"`
	StartDate  *string           `json:"startDate"`
	EndDate    *string           `json:"endDate"`
}

// TaskFilters are the task list filters
type TaskFilters struct {
	Status     domain.TaskStatus `json:"status,omitempty"`
	SearchTerm string            `json:"searchTerm"`
	ClientID   *int64            `json:"clientId,omitempty"`
	StartDate  *string           `json:"startDate"`
	EndDate    *string           `json:"endDate"`
}

// ClientStore holds clients newest-first
type ClientStore = Store[domain.Client, ClientFilters]

// TaskStore holds tasks in insertion order
type TaskStore = Store[domain.Task, TaskFilters]

// NewClientStore creates the client store. New clients go to the head because
// the default sort is created_at descending.
func NewClientStore() *ClientStore {
	return New[domain.Client](Options[ClientFilters]{
		Policy:  InsertHead,
		Sorting: domain.Sorting{Field: "created_at", Direction: domain.SortDesc},
	})
}

// NewTaskStore creates the task store
func NewTaskStore() *TaskStore {
	return New[domain.Task](Options[TaskFilters]{
		Policy: InsertTail,
	})
}

// CalendarStore holds merged calendar items plus the visible view and date
type CalendarStore struct {
	*Store[calendar.Item, calendar.Filters]

	viewMu       sync.RWMutex
	view         calendar.View
	selectedDate time.Time
	initialDate  time.Time
}

// CalendarState is a snapshot of the calendar store
type CalendarState struct {
	State[calendar.Item, calendar.Filters]
	View         calendar.View `json:"view"`
	SelectedDate string        `json:"selectedDate"`
}

// NewCalendarStore creates the calendar store anchored at now in month view
func NewCalendarStore(now time.Time) *CalendarStore {
	return &CalendarStore{
		Store:        New[calendar.Item](Options[calendar.Filters]{Policy: InsertTail}),
		view:         calendar.ViewMonth,
		selectedDate: now,
		initialDate:  now,
	}
}

// Reset clears the items and returns to month view at the construction date
func (c *CalendarStore) Reset() {
	c.Store.Reset()
	c.viewMu.Lock()
	c.view = calendar.ViewMonth
	c.selectedDate = c.initialDate
	c.viewMu.Unlock()
}

// SetView switches the visible span
func (c *CalendarStore) SetView(v calendar.View) {
	c.viewMu.Lock()
	c.view = v
	c.viewMu.Unlock()
}

// View returns the visible span
func (c *CalendarStore) View() calendar.View {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.view
}

// SetSelectedDate moves the anchor date
func (c *CalendarStore) SetSelectedDate(t time.Time) {
	c.viewMu.Lock()
	c.selectedDate = t
	c.viewMu.Unlock()
}

// SelectedDate returns the anchor date
func (c *CalendarStore) SelectedDate() time.Time {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.selectedDate
}

// Visible returns the items after view-level filters, ordered for rendering
func (c *CalendarStore) Visible() []calendar.Item {
	return calendar.SortByStart(c.Filters().Apply(c.List()))
}

// CalendarSnapshot returns the full calendar state
func (c *CalendarStore) CalendarSnapshot() CalendarState {
	c.viewMu.RLock()
	view, selected := c.view, c.selectedDate
	c.viewMu.RUnlock()
	return CalendarState{
		State:        c.Snapshot(),
		View:         view,
		SelectedDate: domain.FormatTime(selected),
	}
}
