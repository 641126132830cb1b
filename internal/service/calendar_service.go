package service

import (
	"context"
	"time"

	"github.com/straye-as/relation-sync/internal/calendar"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/straye-as/relation-sync/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTaskPageSize is the task page fetched when projecting tasks onto the calendar
const DefaultTaskPageSize = 100

// CalendarService synchronizes calendar events and builds the merged calendar
type CalendarService struct {
	crud         crud[domain.CalendarEvent]
	tasks        *TaskService
	taskPageSize int
	now          func() time.Time
}

// NewCalendarService creates a calendar service. tasks supplies the task page
// projected onto the calendar.
func NewCalendarService(gw *gateway.Client, tasks *TaskService, auth session.Resolver, taskPageSize int, logger *zap.Logger) *CalendarService {
	if taskPageSize <= 0 {
		taskPageSize = DefaultTaskPageSize
	}
	return &CalendarService{
		crud: crud[domain.CalendarEvent]{
			resource: gateway.NewResource[domain.CalendarEvent](gw, gateway.PathCalendar),
			auth:     auth,
			entity:   "calendar_event",
			msgs:     eventMessages,
			logger:   logger,
		},
		tasks:        tasks,
		taskPageSize: taskPageSize,
		now:          time.Now,
	}
}

// List fetches one page of events matching params
func (s *CalendarService) List(ctx context.Context, params domain.EventListParams) domain.Result[[]domain.CalendarEvent] {
	return s.crud.list(ctx, gateway.EventQuery(params))
}

// Get fetches one event
func (s *CalendarService) Get(ctx context.Context, id int64) domain.Result[domain.CalendarEvent] {
	return s.crud.get(ctx, id)
}

// Create validates and creates an event
func (s *CalendarService) Create(ctx context.Context, input domain.CalendarEventInput) domain.Result[domain.CalendarEvent] {
	return s.crud.create(ctx, input)
}

// Update validates and replaces an event
func (s *CalendarService) Update(ctx context.Context, id int64, input domain.CalendarEventInput) domain.Result[domain.CalendarEvent] {
	return s.crud.update(ctx, id, input)
}

// Delete removes an event
func (s *CalendarService) Delete(ctx context.Context, id int64) domain.Result[domain.Empty] {
	return s.crud.delete(ctx, id)
}

// LoadRange fetches the events inside r and the first task page concurrently
// and merges them. If either fetch fails the whole load fails with empty data;
// the events failure is reported when both fail.
func (s *CalendarService) LoadRange(ctx context.Context, r calendar.Range) domain.Result[[]calendar.Item] {
	if _, err := s.crud.token(ctx); err != nil {
		return failList[calendar.Item](ctx, err, MsgFetchEvents)
	}

	var (
		events domain.Result[[]domain.CalendarEvent]
		tasks  domain.Result[[]domain.Task]
		g      errgroup.Group
	)
	g.Go(func() error {
		events = s.List(ctx, domain.EventListParams{
			StartDate: domain.FormatTime(r.Start),
			EndDate:   domain.FormatTime(r.End),
		})
		return nil
	})
	g.Go(func() error {
		tasks = s.tasks.List(ctx, domain.TaskListParams{Page: 1, ItemsPerPage: s.taskPageSize})
		return nil
	})
	_ = g.Wait()

	switch {
	case !events.Success:
		return failList[calendar.Item](ctx, events.Err(), events.Error)
	case !tasks.Success:
		return failList[calendar.Item](ctx, tasks.Err(), tasks.Error)
	}

	items := calendar.Merge(events.Data, tasks.Data, s.now())
	return domain.OkPage(items, nil)
}
