package calendar

import (
	"testing"
	"time"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func TestMerge(t *testing.T) {
	events := []domain.CalendarEvent{
		{ID: 5, Title: "Kickoff", StartDate: "2024-05-20T09:00:00Z", TaskID: int64Ptr(5)},
	}
	tasks := []domain.Task{
		{ID: 5, Title: "Prepare", DueDate: "2024-05-18", Priority: domain.PriorityHigh, Status: domain.TaskStatusTodo, ClientID: int64Ptr(3)},
		{ID: 6, Title: "Someday"},
	}

	items := Merge(events, tasks, now)

	require.Len(t, items, 2, "tasks without a due date have no calendar presence")
	assert.Equal(t, KindEvent, items[0].Kind)
	assert.Equal(t, KindTask, items[1].Kind)

	// an event and a task sharing a numeric id never collide
	assert.Equal(t, "5", items[0].RecordKey())
	assert.Equal(t, "task:5", items[1].RecordKey())

	p := items[1].Task
	assert.Equal(t, "2024-05-18", p.Start)
	assert.Equal(t, p.Start, p.End)
	assert.Equal(t, domain.PriorityHigh, p.Priority)
	assert.Equal(t, int64(3), *items[1].ClientID())
	assert.Equal(t, domain.FormatTime(now), p.ProjectedAt)
}

func TestMerge_Empty(t *testing.T) {
	items := Merge(nil, nil, now)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestItem_Derived(t *testing.T) {
	event := EventItem(domain.CalendarEvent{ID: 1, TaskID: int64Ptr(9)})
	assert.False(t, event.IsDerived(), "an event that references a task is still an event")
	tid, ok := event.TaskID()
	assert.True(t, ok)
	assert.Equal(t, int64(9), tid)

	projected, ok := ProjectTask(domain.Task{ID: 9, DueDate: "2024-05-01"}, now)
	require.True(t, ok)
	assert.True(t, projected.IsDerived())
}

func TestHideTasks(t *testing.T) {
	projected, _ := ProjectTask(domain.Task{ID: 1, DueDate: "2024-05-01"}, now)
	items := []Item{
		EventItem(domain.CalendarEvent{ID: 1, TaskID: int64Ptr(1)}),
		projected,
	}

	out := HideTasks(items)
	require.Len(t, out, 1)
	assert.Equal(t, KindEvent, out[0].Kind)
}

func TestFilters_Apply(t *testing.T) {
	projected, _ := ProjectTask(domain.Task{ID: 2, Title: "Call back Acme", DueDate: "2024-05-02", ClientID: int64Ptr(7)}, now)
	items := []Item{
		EventItem(domain.CalendarEvent{ID: 1, Title: "Acme review", Type: domain.EventTypeMeeting, ClientID: int64Ptr(7)}),
		EventItem(domain.CalendarEvent{ID: 3, Title: "Dentist", Type: domain.EventTypeReminder}),
		projected,
	}

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{name: "none", filters: Filters{}, want: []string{"1", "3", "task:2"}},
		{name: "type hides projections", filters: Filters{Type: domain.EventTypeMeeting}, want: []string{"1"}},
		{name: "client", filters: Filters{ClientID: int64Ptr(7)}, want: []string{"1", "task:2"}},
		{name: "task", filters: Filters{TaskID: int64Ptr(2)}, want: []string{"task:2"}},
		{name: "search is case-insensitive", filters: Filters{SearchTerm: " ACME "}, want: []string{"1", "task:2"}},
		{name: "hide tasks", filters: Filters{HideTasks: true}, want: []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var keys []string
			for _, item := range tt.filters.Apply(items) {
				keys = append(keys, item.RecordKey())
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestSortByStart_Stable(t *testing.T) {
	items := []Item{
		EventItem(domain.CalendarEvent{ID: 1, StartDate: "2024-05-20T09:00:00Z"}),
		EventItem(domain.CalendarEvent{ID: 2, StartDate: "2024-05-10T09:00:00Z"}),
		EventItem(domain.CalendarEvent{ID: 3, StartDate: "2024-05-20T09:00:00Z"}),
	}

	sorted := SortByStart(items)

	assert.Equal(t, []string{"2", "1", "3"}, []string{sorted[0].RecordKey(), sorted[1].RecordKey(), sorted[2].RecordKey()})
	assert.Equal(t, "1", items[0].RecordKey(), "input is not modified")
}

func TestOnDay(t *testing.T) {
	items := []Item{
		EventItem(domain.CalendarEvent{ID: 1, StartDate: "2024-05-15T23:30:00Z"}),
		EventItem(domain.CalendarEvent{ID: 2, StartDate: "2024-05-16T00:30:00Z"}),
		EventItem(domain.CalendarEvent{ID: 3, StartDate: "not a date"}),
	}

	got := OnDay(items, now, time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].RecordKey())

	oslo := time.FixedZone("CEST", 2*60*60)
	got = OnDay(items, time.Date(2024, 5, 16, 12, 0, 0, 0, oslo), oslo)
	assert.Len(t, got, 2, "both fall on the 16th in UTC+2")
}

func TestFlatten(t *testing.T) {
	projected, _ := ProjectTask(domain.Task{ID: 42, Title: "Follow up", DueDate: "2024-05-02", Priority: domain.PriorityLow}, now)
	items := []Item{
		EventItem(domain.CalendarEvent{ID: 42, Title: "Real event"}),
		projected,
	}

	flat := Flatten(items)
	require.Len(t, flat, 2)

	assert.Equal(t, int64(42), flat[0].ID)
	assert.False(t, flat[0].Derived)

	assert.Equal(t, int64(42)+SyntheticIDOffset, flat[1].ID)
	assert.True(t, flat[1].Derived)
	require.NotNil(t, flat[1].TaskID)
	assert.Equal(t, int64(42), *flat[1].TaskID)
	assert.Equal(t, domain.PriorityLow, flat[1].Priority)
	assert.Equal(t, domain.EventTypeMeeting, flat[1].Type)
	assert.Equal(t, domain.EventStatusScheduled, flat[1].Status)
	assert.Equal(t, "2024-05-02", flat[1].StartDate)
	assert.Equal(t, flat[1].StartDate, flat[1].EndDate)
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewMonth, v)

	v, err = ParseView("week")
	require.NoError(t, err)
	assert.Equal(t, ViewWeek, v)

	_, err = ParseView("year")
	assert.Error(t, err)
}

func TestRanges(t *testing.T) {
	// Wednesday
	anchor := time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

	month := RangeFor(ViewMonth, anchor)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), month.Start)
	assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, 999000000, time.UTC), month.End)

	week := RangeFor(ViewWeek, anchor)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), week.Start)
	assert.Equal(t, time.Weekday(time.Sunday), week.End.Weekday())
	assert.Equal(t, 19, week.End.Day())

	day := RangeFor(ViewDay, anchor)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, time.Date(2024, 5, 15, 23, 59, 59, 999000000, time.UTC), day.End)

	// Sunday belongs to the week that started the Monday before
	sunday := WeekRange(time.Date(2024, 5, 19, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 13, sunday.Start.Day())
}
