package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entity is implemented by every record held in an entity store.
// RecordKey must be unique within one store's list.
type Entity interface {
	RecordKey() string
}

// IDKey returns the store key for a Gateway-owned numeric id
func IDKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// LeadStatus represents a client's sales-readiness classification
type LeadStatus string

const (
	LeadCold LeadStatus = "cold"
	LeadWarm LeadStatus = "warm"
	LeadHot  LeadStatus = "hot"
)

// IsValid checks if the lead status is valid
func (l LeadStatus) IsValid() bool {
	switch l {
	case LeadCold, LeadWarm, LeadHot:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// IsValid checks if the priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TaskStatus represents the progress of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskType represents the kind of work a task describes
type TaskType string

const (
	TaskTypeFollowUp TaskType = "follow-up"
	TaskTypeMeeting  TaskType = "meeting"
	TaskTypeCall     TaskType = "call"
	TaskTypeOther    TaskType = "other"
)

// IsValid checks if the task type is valid
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeFollowUp, TaskTypeMeeting, TaskTypeCall, TaskTypeOther:
		return true
	}
	return false
}

// EventType represents the kind of calendar event
type EventType string

const (
	EventTypeMeeting  EventType = "meeting"
	EventTypeCall     EventType = "call"
	EventTypeReminder EventType = "reminder"
	EventTypeOther    EventType = "other"
)

// IsValid checks if the event type is valid
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeMeeting, EventTypeCall, EventTypeReminder, EventTypeOther:
		return true
	}
	return false
}

// EventStatus represents the lifecycle state of a calendar event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// IsValid checks if the event status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusScheduled, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// Recurrence represents how often an event repeats
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// IsValid checks if the recurrence is valid
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Client is a company and contact identity record.
// ID, OwnerID and CreatedAt are assigned by the Gateway.
type Client struct {
	ID                     int64      `json:"id"`
	CreatedAt              string     `json:"created_at"`
	CompanyName            string     `json:"company_name"`
	FirstName              string     `json:"first_name"`
	LastName               string     `json:"last_name"`
	Position               string     `json:"position"`
	Phone                  string     `json:"phone"`
	Email                  string     `json:"email"`
	Website                string     `json:"website"`
	Address                string     `json:"address"`
	City                   string     `json:"city"`
	State                  string     `json:"state"`
	Zipcode                string     `json:"zipcode"`
	Lead                   LeadStatus `json:"lead"`
	RelatedName            string     `json:"related_name"`
	LinkedinConnection     string     `json:"linkedin_connection"`
	Comments               string     `json:"comments"`
	FirstContact           *string    `json:"first_contact,omitempty"`
	DescriptionContact     string     `json:"description_contact"`
	DateOfLastContact      *string    `json:"date_of_last_contact,omitempty"`
	DescriptionContactMore string     `json:"description_contact_more"`
	FollowUpAction         string     `json:"follow_up_action"`
	DateOfNextContact      *string    `json:"date_of_next_contact,omitempty"`
	NewBusiness            string     `json:"new_business"`
	Recommendation         string     `json:"recommendation"`
	OwnerID                int64      `json:"owner_id"`
	LatestTaskID           *int64     `json:"latest_task_id,omitempty"`
	TaskCount              *int       `json:"task_count,omitempty"`
}

// RecordKey implements Entity
func (c Client) RecordKey() string { return IDKey(c.ID) }

// FullName returns the contact's display name
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Task is an actionable item, optionally linked to a client
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Type        TaskType     `json:"type"`
	ClientID    *int64       `json:"client_id,omitempty"`
}

// RecordKey implements Entity
func (t Task) RecordKey() string { return IDKey(t.ID) }

// HasDueDate reports whether the task can be anchored on the calendar
func (t Task) HasDueDate() bool {
	return strings.TrimSpace(t.DueDate) != ""
}

// CalendarEvent is a schedulable item persisted by the Gateway
type CalendarEvent struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	AllDay        bool        `json:"all_day"`
	Type          EventType   `json:"type"`
	Status        EventStatus `json:"status"`
	ClientID      *int64      `json:"client_id,omitempty"`
	TaskID        *int64      `json:"task_id,omitempty"`
	Location      string      `json:"location,omitempty"`
	Recurrence    Recurrence  `json:"recurrence"`
	RecurrenceEnd string      `json:"recurrence_end,omitempty"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// RecordKey implements Entity
func (e CalendarEvent) RecordKey() string { return IDKey(e.ID) }

// User is the authenticated Gateway user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UnmarshalJSON accepts both numeric and string user ids
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Username string          `json:"username"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Username = raw.Username
	u.ID = ""
	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		u.ID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	u.ID = n.String()
	return nil
}

// ParseTime parses the ISO-8601 forms the Gateway emits.
// Date-only values are interpreted as midnight UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", value)
}

// FormatTime renders a time the way the Gateway expects it
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
