package domain

// ============================================================================
// Write payloads
// ============================================================================

// ClientInput is the full client record sent on create and update.
// Update is a whole-record replace, so callers must send unchanged fields too.
type ClientInput struct {
	CompanyName            string     `json:"company_name" validate:"required,max=255"`
	FirstName              string     `json:"first_name" validate:"required,max=100"`
	LastName               string     `json:"last_name" validate:"required,max=100"`
	Position               string     `json:"position" validate:"required,max=100"`
	Phone                  string     `json:"phone" validate:"required,crmphone"`
	Email                  string     `json:"email" validate:"required,crmemail"`
	Website                string     `json:"website" validate:"required,schemeurl"`
	Address                string     `json:"address" validate:"required,max=500"`
	City                   string     `json:"city" validate:"required,max=100"`
	State                  string     `json:"state" validate:"required,max=100"`
	Zipcode                string     `json:"zipcode" validate:"required,max=20"`
	Lead                   LeadStatus `json:"lead" validate:"omitempty,oneof=cold warm hot"`
	RelatedName            string     `json:"related_name"`
	LinkedinConnection     string     `json:"linkedin_connection"`
	Comments               string     `json:"comments"`
	FirstContact           *string    `json:"first_contact,omitempty" validate:"omitempty,isodate"`
	DescriptionContact     string     `json:"description_contact"`
	DateOfLastContact      *string    `json:"date_of_last_contact,omitempty" validate:"omitempty,isodate"`
	DescriptionContactMore string     `json:"description_contact_more"`
	FollowUpAction         string     `json:"follow_up_action"`
	DateOfNextContact      *string    `json:"date_of_next_contact,omitempty" validate:"omitempty,isodate"`
	NewBusiness            string     `json:"new_business"`
	Recommendation         string     `json:"recommendation"`
}

// InputFromClient copies the editable fields of an existing client
func InputFromClient(c Client) ClientInput {
	return ClientInput{
		CompanyName:            c.CompanyName,
		FirstName:              c.FirstName,
		LastName:               c.LastName,
		Position:               c.Position,
		Phone:                  c.Phone,
		Email:                  c.Email,
		Website:                c.Website,
		Address:                c.Address,
		City:                   c.City,
		State:                  c.State,
		Zipcode:                c.Zipcode,
		Lead:                   c.Lead,
		RelatedName:            c.RelatedName,
		LinkedinConnection:     c.LinkedinConnection,
		Comments:               c.Comments,
		FirstContact:           c.FirstContact,
		DescriptionContact:     c.DescriptionContact,
		DateOfLastContact:      c.DateOfLastContact,
		DescriptionContactMore: c.DescriptionContactMore,
		FollowUpAction:         c.FollowUpAction,
		DateOfNextContact:      c.DateOfNextContact,
		NewBusiness:            c.NewBusiness,
		Recommendation:         c.Recommendation,
	}
}

// TaskInput is the full task record sent on create and update
type TaskInput struct {
	Title       string       `json:"title" validate:"required,max=255"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date" validate:"required,isodate"`
	Priority    TaskPriority `json:"priority" validate:"required,oneof=high medium low"`
	Status      TaskStatus   `json:"status" validate:"required,oneof=todo in-progress completed"`
	Type        TaskType     `json:"type" validate:"required,oneof=follow-up meeting call other"`
	ClientID    *int64       `json:"client_id,omitempty" validate:"omitempty,gt=0"`
}

// InputFromTask copies the editable fields of an existing task
func InputFromTask(t Task) TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Type:        t.Type,
		ClientID:    t.ClientID,
	}
}

// CalendarEventInput is the full event record sent on create and update
type CalendarEventInput struct {
	Title         string      `json:"title" validate:"required,notblank,max=255"`
	Description   string      `json:"description,omitempty"`
	StartDate     string      `json:"start_date" validate:"required,isodate"`
	EndDate       string      `json:"end_date" validate:"required,isodate"`
	AllDay        bool        `json:"all_day"`
	Type          EventType   `json:"type" validate:"required,oneof=meeting call reminder other"`
	Status        EventStatus `json:"status" validate:"required,oneof=scheduled cancelled completed"`
	ClientID      *int64      `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	TaskID        *int64      `json:"task_id,omitempty" validate:"omitempty,gt=0"`
	Location      string      `json:"location,omitempty" validate:"max=255"`
	Recurrence    Recurrence  `json:"recurrence" validate:"required,oneof=none daily weekly monthly yearly"`
	RecurrenceEnd string      `json:"recurrence_end,omitempty" validate:"omitempty,isodate"`
}

// InputFromEvent copies the editable fields of an existing event
func InputFromEvent(e CalendarEvent) CalendarEventInput {
	return CalendarEventInput{
		Title:         e.Title,
		Description:   e.Description,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		AllDay:        e.AllDay,
		Type:          e.Type,
		Status:        e.Status,
		ClientID:      e.ClientID,
		TaskID:        e.TaskID,
		Location:      e.Location,
		Recurrence:    e.Recurrence,
		RecurrenceEnd: e.RecurrenceEnd,
	}
}

// LoginRequest is the credential pair posted to the Gateway
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token issued by the Gateway
type LoginResponse struct {
	Token string `json:"token"`
}

// ============================================================================
// List state
// ============================================================================

// Pagination mirrors the Gateway's pagination block
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// DefaultPagination is the state before the first list response arrives
func DefaultPagination() Pagination {
	return Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 0, ItemsPerPage: 10}
}

// PaginationPatch is a partial pagination update; nil fields are left untouched
type PaginationPatch struct {
	CurrentPage  *int `json:"currentPage,omitempty"`
	TotalPages   *int `json:"totalPages,omitempty"`
	TotalItems   *int `json:"totalItems,omitempty"`
	ItemsPerPage *int `json:"itemsPerPage,omitempty"`
}

// Apply merges the patch onto p
func (pp PaginationPatch) Apply(p Pagination) Pagination {
	if pp.CurrentPage != nil {
		p.CurrentPage = *pp.CurrentPage
	}
	if pp.TotalPages != nil {
		p.TotalPages = *pp.TotalPages
	}
	if pp.TotalItems != nil {
		p.TotalItems = *pp.TotalItems
	}
	if pp.ItemsPerPage != nil {
		p.ItemsPerPage = *pp.ItemsPerPage
	}
	return p
}

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sorting describes the active list ordering
type Sorting struct {
	Field     string        `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// ClientListParams are the filters accepted by GET /clients/
type ClientListParams struct {
	Lead         LeadStatus
	Search       string
	Page         int
	ItemsPerPage int
	SortBy       string
	SortOrder    SortDirection
}

// TaskListParams are the filters accepted by GET /tasks/
type TaskListParams struct {
	Status       TaskStatus
	Search       string
	ClientID     *int64
	Page         int
	ItemsPerPage int
}

// EventListParams are the filters accepted by GET /calendar/
type EventListParams struct {
	Type      EventType
	Search    string
	ClientID  *int64
	TaskID    *int64
	StartDate string
	EndDate   string
}
