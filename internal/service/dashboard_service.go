package service

import (
	"math"
	"sort"
	"time"

	"github.com/straye-as/relation-sync/internal/calendar"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/store"
)

const (
	dashboardListSize = 3
	followUpWindow    = 7 * 24 * time.Hour
	growthMonths      = 6
)

// LeadShare is the count and rounded percentage of clients in one lead bucket
type LeadShare struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// LeadDistribution always carries all three buckets
type LeadDistribution struct {
	Hot  LeadShare `json:"hot"`
	Warm LeadShare `json:"warm"`
	Cold LeadShare `json:"cold"`
}

// MonthCount is the number of clients created in one calendar month
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// DashboardSummary is the read model rendered by the dashboard view
type DashboardSummary struct {
	TotalClients     int                       `json:"totalClients"`
	LeadDistribution LeadDistribution          `json:"leadDistribution"`
	RecentClients    []domain.Client           `json:"recentClients"`
	UpcomingEvents   []calendar.FlatEvent      `json:"upcomingEvents"`
	TasksByStatus    map[domain.TaskStatus]int `json:"tasksByStatus"`
	FollowUpsDue     []domain.Client           `json:"followUpsDue"`
	ClientGrowth     []MonthCount              `json:"clientGrowth"`
	GeneratedAt      string                    `json:"generatedAt"`
}

// DashboardService derives the dashboard from what the stores already hold.
// It never calls the Gateway.
type DashboardService struct {
	clients  *store.ClientStore
	tasks    *store.TaskStore
	calendar *store.CalendarStore
}

// NewDashboardService creates a dashboard service over the given stores
func NewDashboardService(clients *store.ClientStore, tasks *store.TaskStore, cal *store.CalendarStore) *DashboardService {
	return &DashboardService{clients: clients, tasks: tasks, calendar: cal}
}

// Summary builds the dashboard as of now
func (s *DashboardService) Summary(now time.Time) DashboardSummary {
	return Summarize(s.clients.List(), s.tasks.List(), s.calendar.List(), now)
}

// Summarize computes the dashboard read model from plain lists
func Summarize(clients []domain.Client, tasks []domain.Task, items []calendar.Item, now time.Time) DashboardSummary {
	byStatus := map[domain.TaskStatus]int{
		domain.TaskStatusTodo:       0,
		domain.TaskStatusInProgress: 0,
		domain.TaskStatusCompleted:  0,
	}
	for _, t := range tasks {
		byStatus[t.Status]++
	}

	return DashboardSummary{
		TotalClients:     len(clients),
		LeadDistribution: leadDistribution(clients),
		RecentClients:    recentClients(clients, dashboardListSize),
		UpcomingEvents:   calendar.Flatten(upcoming(items, now, dashboardListSize)),
		TasksByStatus:    byStatus,
		FollowUpsDue:     followUpsDue(clients, now),
		ClientGrowth:     clientGrowth(clients, now, growthMonths),
		GeneratedAt:      domain.FormatTime(now),
	}
}

func leadDistribution(clients []domain.Client) LeadDistribution {
	counts := map[domain.LeadStatus]int{}
	for _, c := range clients {
		counts[c.Lead]++
	}
	share := func(n int) LeadShare {
		if len(clients) == 0 {
			return LeadShare{}
		}
		return LeadShare{Count: n, Percentage: int(math.Round(float64(n) / float64(len(clients)) * 100))}
	}
	return LeadDistribution{
		Hot:  share(counts[domain.LeadHot]),
		Warm: share(counts[domain.LeadWarm]),
		Cold: share(counts[domain.LeadCold]),
	}
}

func recentClients(clients []domain.Client, n int) []domain.Client {
	type dated struct {
		client domain.Client
		at     time.Time
	}
	all := make([]dated, 0, len(clients))
	for _, c := range clients {
		at, _ := domain.ParseTime(c.CreatedAt)
		all = append(all, dated{client: c, at: at})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].at.After(all[j].at) })

	out := make([]domain.Client, 0, n)
	for i := 0; i < len(all) && i < n; i++ {
		out = append(out, all[i].client)
	}
	return out
}

func upcoming(items []calendar.Item, now time.Time, n int) []calendar.Item {
	future := make([]calendar.Item, 0, len(items))
	for _, it := range items {
		if start := it.Start(); !start.IsZero() && start.After(now) {
			future = append(future, it)
		}
	}
	future = calendar.SortByStart(future)
	if len(future) > n {
		future = future[:n]
	}
	return future
}

// followUpsDue lists clients whose next contact date falls before the end of
// the follow-up window, soonest first
func followUpsDue(clients []domain.Client, now time.Time) []domain.Client {
	cutoff := now.Add(followUpWindow)
	type due struct {
		client domain.Client
		at     time.Time
	}
	var list []due
	for _, c := range clients {
		if c.DateOfNextContact == nil {
			continue
		}
		at, err := domain.ParseTime(*c.DateOfNextContact)
		if err != nil || at.After(cutoff) {
			continue
		}
		list = append(list, due{client: c, at: at})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].at.Before(list[j].at) })

	out := make([]domain.Client, 0, len(list))
	for _, d := range list {
		out = append(out, d.client)
	}
	return out
}

// clientGrowth counts clients created per month, oldest month first, ending with now's month
func clientGrowth(clients []domain.Client, now time.Time, months int) []MonthCount {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	out := make([]MonthCount, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthCount{Month: key}
		index[key] = i
	}
	for _, c := range clients {
		at, err := domain.ParseTime(c.CreatedAt)
		if err != nil {
			continue
		}
		if i, ok := index[at.UTC().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}
