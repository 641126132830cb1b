package validation

import (
	"errors"
	"testing"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClient() domain.ClientInput {
	return domain.ClientInput{
		CompanyName: "Acme",
		FirstName:   "Ann",
		LastName:    "Lee",
		Position:    "CTO",
		Phone:       "+1 (555) 010-2000",
		Email:       "ann@acme.io",
		Website:     "https://acme.io",
		Address:     "1 Main St",
		City:        "Oslo",
		State:       "Oslo",
		Zipcode:     "0150",
		Lead:        domain.LeadHot,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %T", err)
	return vErr.Fields
}

func TestValidate_Client(t *testing.T) {
	require.NoError(t, Validate(validClient()))

	tests := []struct {
		name    string
		mutate  func(*domain.ClientInput)
		field   string
		message string
	}{
		{"missing company", func(c *domain.ClientInput) { c.CompanyName = "" }, "company_name", "Company Name is required"},
		{"missing zipcode", func(c *domain.ClientInput) { c.Zipcode = "" }, "zipcode", "Zipcode is required"},
		{"bad email", func(c *domain.ClientInput) { c.Email = "ann@acme" }, "email", "Please enter a valid email address"},
		{"email with space", func(c *domain.ClientInput) { c.Email = "a nn@acme.io" }, "email", "Please enter a valid email address"},
		{"website without scheme", func(c *domain.ClientInput) { c.Website = "acme.io" }, "website", "Please enter a valid URL starting with http:// or https://"},
		{"phone with letters", func(c *domain.ClientInput) { c.Phone = "555-CALL" }, "phone", "Please enter a valid phone number"},
		{"bad lead", func(c *domain.ClientInput) { c.Lead = "lukewarm" }, "lead", "Must be one of: cold warm hot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validClient()
			tt.mutate(&in)
			fields := fieldsOf(t, Validate(in))
			assert.Equal(t, tt.message, fields[tt.field])
			assert.Len(t, fields, 1)
		})
	}
}

func TestValidate_ClientAllRequired(t *testing.T) {
	fields := fieldsOf(t, Validate(domain.ClientInput{}))
	for _, name := range []string{
		"company_name", "first_name", "last_name", "position", "phone", "email",
		"website", "address", "city", "state", "zipcode",
	} {
		assert.Contains(t, fields, name)
	}
	assert.Equal(t, "First Name is required", fields["first_name"])
	assert.NotContains(t, fields, "lead")
}

func TestValidate_Task(t *testing.T) {
	valid := domain.TaskInput{
		Title:    "Call back",
		DueDate:  "2024-05-02",
		Priority: domain.PriorityHigh,
		Status:   domain.TaskStatusTodo,
		Type:     domain.TaskTypeCall,
	}
	require.NoError(t, Validate(valid))

	fields := fieldsOf(t, Validate(domain.TaskInput{}))
	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Due Date is required", fields["due_date"])
	assert.Equal(t, "Priority is required", fields["priority"])
	assert.Equal(t, "Status is required", fields["status"])
	assert.Equal(t, "Type is required", fields["type"])

	bad := valid
	bad.DueDate = "next tuesday"
	fields = fieldsOf(t, Validate(bad))
	assert.Equal(t, "Please enter a valid date", fields["due_date"])
}

func TestValidate_Event(t *testing.T) {
	valid := domain.CalendarEventInput{
		Title:      "Review",
		StartDate:  "2024-05-02T10:00:00Z",
		EndDate:    "2024-05-02T11:00:00Z",
		Type:       domain.EventTypeMeeting,
		Status:     domain.EventStatusScheduled,
		Recurrence: domain.RecurrenceNone,
	}
	require.NoError(t, Validate(valid))

	t.Run("same start and end is allowed", func(t *testing.T) {
		in := valid
		in.EndDate = in.StartDate
		assert.NoError(t, Validate(in))
	})

	t.Run("end before start", func(t *testing.T) {
		in := valid
		in.EndDate = "2024-05-02T09:00:00Z"
		fields := fieldsOf(t, Validate(in))
		assert.Equal(t, "End date must be after start date", fields["end_date"])
	})

	t.Run("blank title and missing dates", func(t *testing.T) {
		in := valid
		in.Title = "   "
		in.StartDate = ""
		in.EndDate = ""
		fields := fieldsOf(t, Validate(in))
		assert.Equal(t, "Title is required", fields["title"])
		assert.Equal(t, "Start date is required", fields["start_date"])
		assert.Equal(t, "End date is required", fields["end_date"])
	})
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Company Name", Humanize("company_name"))
	assert.Equal(t, "Zipcode", Humanize("zipcode"))
	assert.Equal(t, "Date Of Next Contact", Humanize("date_of_next_contact"))
}
