package controller

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/straye-as/relation-sync/internal/calendar"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/service"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
)

const (
	entityEvent = "calendar_event"

	msgDerivedItem = "Task items are edited from the task, not the calendar"
	msgInvalidKey  = "Invalid calendar item id"
)

// calendarExtra is persisted next to the calendar list
type calendarExtra struct {
	View         calendar.View `json:"view"`
	SelectedDate string        `json:"selectedDate"`
}

// CalendarController binds the calendar view to the calendar store.
// It reads tasks for projection but never writes to the task store.
type CalendarController struct {
	svc       *service.CalendarService
	store     *store.CalendarStore
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewCalendarController creates a calendar controller. snapshots may be nil.
func NewCalendarController(svc *service.CalendarService, st *store.CalendarStore, snapshots SnapshotStore, logger *zap.Logger) *CalendarController {
	return &CalendarController{svc: svc, store: st, snapshots: snapshots, logger: logger}
}

func (c *CalendarController) Store() *store.CalendarStore {
	return c.store
}

// Load moves the calendar to view/date and loads the merged items for its range
func (c *CalendarController) Load(ctx context.Context, view calendar.View, date time.Time) domain.Result[[]calendar.Item] {
	c.store.SetView(view)
	c.store.SetSelectedDate(date)
	rng := calendar.RangeFor(view, date)

	return run(ctx, c.store, entityEvent, store.OpList, c.logger,
		func(ctx context.Context) domain.Result[[]calendar.Item] { return c.svc.LoadRange(ctx, rng) },
		func(res domain.Result[[]calendar.Item]) {
			c.store.SetList(res.Data)
			saveSnapshot(ctx, c.snapshots, c.logger, SnapshotCalendar, listSnapshot[calendar.Item, calendarExtra]{
				List:  res.Data,
				Extra: calendarExtra{View: view, SelectedDate: domain.FormatTime(date)},
			})
		})
}

// Reload loads the range of the store's current view and date
func (c *CalendarController) Reload(ctx context.Context) domain.Result[[]calendar.Item] {
	return c.Load(ctx, c.store.View(), c.store.SelectedDate())
}

// Get loads one persisted event into the current slot
func (c *CalendarController) Get(ctx context.Context, key string) domain.Result[calendar.Item] {
	id, err := eventID(key)
	if err != nil {
		return domain.Fail[calendar.Item](ctx, err, msgInvalidKey)
	}
	return run(ctx, c.store, entityEvent, store.OpGet, c.logger,
		func(ctx context.Context) domain.Result[calendar.Item] {
			return asItem(c.svc.Get(ctx, id))
		},
		func(res domain.Result[calendar.Item]) { c.store.SetCurrent(&res.Data) })
}

// Create creates an event and appends it to the calendar
func (c *CalendarController) Create(ctx context.Context, input domain.CalendarEventInput) domain.Result[calendar.Item] {
	return run(ctx, c.store, entityEvent, store.OpCreate, c.logger,
		func(ctx context.Context) domain.Result[calendar.Item] {
			return asItem(c.svc.Create(ctx, input))
		},
		func(res domain.Result[calendar.Item]) { c.store.Add(res.Data) })
}

// Update replaces a persisted event. Task projections are rejected.
func (c *CalendarController) Update(ctx context.Context, key string, input domain.CalendarEventInput) domain.Result[calendar.Item] {
	id, err := eventID(key)
	if err != nil {
		return domain.Fail[calendar.Item](ctx, err, msgInvalidKey)
	}
	return run(ctx, c.store, entityEvent, store.OpUpdate, c.logger,
		func(ctx context.Context) domain.Result[calendar.Item] {
			return asItem(c.svc.Update(ctx, id, input))
		},
		func(res domain.Result[calendar.Item]) { c.store.Replace(res.Data) })
}

// Patch applies a partial change on top of the event's current record.
// Task projections are rejected.
func (c *CalendarController) Patch(ctx context.Context, key string, apply func(*domain.CalendarEventInput) error) domain.Result[calendar.Item] {
	id, err := eventID(key)
	if err != nil {
		return domain.Fail[calendar.Item](ctx, err, msgInvalidKey)
	}
	return patch(ctx,
		func(ctx context.Context) domain.Result[domain.CalendarEvent] { return c.svc.Get(ctx, id) },
		domain.InputFromEvent, apply,
		func(ctx context.Context, input domain.CalendarEventInput) domain.Result[calendar.Item] {
			return c.Update(ctx, key, input)
		})
}

// Delete removes a persisted event. Task projections are rejected.
func (c *CalendarController) Delete(ctx context.Context, key string) domain.Result[domain.Empty] {
	id, err := eventID(key)
	if err != nil {
		return domain.Fail[domain.Empty](ctx, err, msgInvalidKey)
	}
	return run(ctx, c.store, entityEvent, store.OpDelete, c.logger,
		func(ctx context.Context) domain.Result[domain.Empty] { return c.svc.Delete(ctx, id) },
		func(domain.Result[domain.Empty]) { c.store.RemoveByID(id) })
}

// Warm fills an empty calendar from the last snapshot
func (c *CalendarController) Warm(ctx context.Context) bool {
	if len(c.store.List()) > 0 {
		return false
	}
	var snap listSnapshot[calendar.Item, calendarExtra]
	if !loadSnapshot(ctx, c.snapshots, c.logger, SnapshotCalendar, &snap) {
		return false
	}
	c.store.SetList(snap.List)
	if view, err := calendar.ParseView(string(snap.Extra.View)); err == nil {
		c.store.SetView(view)
	}
	if t, err := domain.ParseTime(snap.Extra.SelectedDate); err == nil {
		c.store.SetSelectedDate(t)
	}
	return true
}

// eventID resolves an item key to a persisted event id. Plain numeric keys
// are always event ids; projections are only addressable as "task:N".
func eventID(key string) (int64, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, calendar.TaskKeyPrefix) {
		return 0, derivedItemError()
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewFieldError("id", msgInvalidKey)
	}
	return id, nil
}

func derivedItemError() error {
	return &domain.ValidationError{
		Fields: map[string]string{"task_id": msgDerivedItem},
		Err:    domain.ErrDerivedItem,
	}
}

func asItem(res domain.Result[domain.CalendarEvent]) domain.Result[calendar.Item] {
	return domain.Map(res, calendar.EventItem)
}
