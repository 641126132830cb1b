package gateway

import (
	"net/url"
	"strconv"

	"github.com/straye-as/relation-sync/internal/domain"
)

// ClientQuery encodes client list params
func ClientQuery(p domain.ClientListParams) url.Values {
	q := url.Values{}
	if p.Lead != "" {
		q.Set("lead", string(p.Lead))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.ItemsPerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.ItemsPerPage))
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sort_order", string(p.SortOrder))
	}
	return q
}

// TaskQuery encodes task list params
func TaskQuery(p domain.TaskListParams) url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.ClientID != nil {
		q.Set("client_id", strconv.FormatInt(*p.ClientID, 10))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.ItemsPerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.ItemsPerPage))
	}
	return q
}

// EventQuery encodes calendar event list params
func EventQuery(p domain.EventListParams) url.Values {
	q := url.Values{}
	if p.Type != "" {
		q.Set("type", string(p.Type))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.ClientID != nil {
		q.Set("client_id", strconv.FormatInt(*p.ClientID, 10))
	}
	if p.TaskID != nil {
		q.Set("task_id", strconv.FormatInt(*p.TaskID, 10))
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("end_date", p.EndDate)
	}
	return q
}
