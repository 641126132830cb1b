package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/straye-as/relation-sync/internal/domain"
)

// SyntheticIDOffset is added to task ids when projections are flattened into
// the legacy event shape. It is a wire detail only; nothing filters on it.
const SyntheticIDOffset int64 = 10000

// Merge returns events followed by the projections of every task with a due
// date. Order is not re-sorted here; renderers order by start with SortByStart.
func Merge(events []domain.CalendarEvent, tasks []domain.Task, now time.Time) []Item {
	items := make([]Item, 0, len(events)+len(tasks))
	for _, e := range events {
		items = append(items, EventItem(e))
	}
	for _, t := range tasks {
		if item, ok := ProjectTask(t, now); ok {
			items = append(items, item)
		}
	}
	return items
}

// HideTasks drops task projections, keeping persisted events even when they
// reference a task
func HideTasks(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsDerived() {
			out = append(out, item)
		}
	}
	return out
}

// Filters are the view-level calendar filters applied after the merge
type Filters struct {
	Type       domain.EventType `json:"type,omitempty"`
	ClientID   *int64           `json:"clientId,omitempty"`
	TaskID     *int64           `json:"taskId,omitempty"`
	SearchTerm string           `json:"searchTerm"`
	StartDate  *string          `json:"startDate"`
	EndDate    *string          `json:"endDate"`
	HideTasks  bool             `json:"hideTasks"`
}

// Apply returns the items matching f
func (f Filters) Apply(items []Item) []Item {
	search := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if f.HideTasks && item.IsDerived() {
			continue
		}
		// projections have no event type, so a type filter hides them
		if f.Type != "" && (item.IsDerived() || item.Event == nil || item.Event.Type != f.Type) {
			continue
		}
		if f.ClientID != nil {
			cid := item.ClientID()
			if cid == nil || *cid != *f.ClientID {
				continue
			}
		}
		if f.TaskID != nil {
			tid, ok := item.TaskID()
			if !ok || tid != *f.TaskID {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Title()), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SortByStart orders items by start time, keeping merge order for ties
func SortByStart(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}

// OnDay returns the items starting on the same calendar day as day in loc
func OnDay(items []Item, day time.Time, loc *time.Location) []Item {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.In(loc).Date()
	var out []Item
	for _, item := range items {
		start := item.Start()
		if start.IsZero() {
			continue
		}
		iy, im, id := start.In(loc).Date()
		if iy == y && im == m && id == d {
			out = append(out, item)
		}
	}
	return out
}

// FlatEvent is the legacy single-shape calendar entry consumed by older views
type FlatEvent struct {
	domain.CalendarEvent
	Priority domain.TaskPriority `json:"_priority,omitempty"`
	Derived  bool                `json:"derived"`
}

// Flatten renders items in the legacy CalendarEvent shape. Projections get
// id = task id + SyntheticIDOffset and carry the task priority.
func Flatten(items []Item) []FlatEvent {
	out := make([]FlatEvent, 0, len(items))
	for _, item := range items {
		if !item.IsDerived() {
			if item.Event != nil {
				out = append(out, FlatEvent{CalendarEvent: *item.Event})
			}
			continue
		}
		p := item.Task
		taskID := p.TaskID
		out = append(out, FlatEvent{
			CalendarEvent: domain.CalendarEvent{
				ID:          taskID + SyntheticIDOffset,
				Title:       p.Title,
				Description: p.Description,
				StartDate:   p.Start,
				EndDate:     p.End,
				AllDay:      false,
				Type:        domain.EventTypeMeeting,
				Status:      domain.EventStatusScheduled,
				ClientID:    p.ClientID,
				TaskID:      &taskID,
				Recurrence:  domain.RecurrenceNone,
				CreatedAt:   p.ProjectedAt,
				UpdatedAt:   p.ProjectedAt,
			},
			Priority: p.Priority,
			Derived:  true,
		})
	}
	return out
}
