package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "auth", err: ErrAuthRequired, want: AuthRequiredMessage},
		{name: "gateway message verbatim", err: &GatewayError{Status: 404, Message: "Client not found"}, want: "Client not found"},
		{name: "gateway without message", err: &GatewayError{Status: 500}, want: "Failed to fetch"},
		{name: "single field", err: NewFieldError("email", "Invalid email"), want: "Invalid email"},
		{name: "many fields", err: &ValidationError{Fields: map[string]string{"a": "x", "b": "y"}}, want: "Please fix the highlighted fields"},
		{name: "network", err: &NetworkError{Op: "GET /tasks/", Err: errors.New("refused")}, want: "Failed to fetch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, "Failed to fetch"))
		})
	}
}

func TestResult(t *testing.T) {
	ok := Ok(3)
	assert.True(t, ok.Success)
	assert.NoError(t, ok.Err())

	fail := Fail[int](context.Background(), NewFieldError("title", "Title is required"), "fallback")
	assert.False(t, fail.Success)
	assert.False(t, fail.Canceled)
	assert.Equal(t, "Title is required", fail.Error)
	assert.Equal(t, map[string]string{"title": "Title is required"}, fail.ValidationErrors())

	mapped := Map(fail, func(v int) string { return "never" })
	assert.Empty(t, mapped.Data)
	assert.Equal(t, fail.Err(), mapped.Err())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	canceled := FailList[string](ctx, ctx.Err(), "fallback")
	assert.True(t, canceled.Canceled)
	assert.NotNil(t, canceled.Data)

	page := OkPage[string](nil, nil)
	assert.NotNil(t, page.Data)
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2024-05-15T10:00:00Z",
		"2024-05-15T10:00:00.000Z",
		"2024-05-15T12:00:00+02:00",
		"2024-05-15T10:00:00",
		"2024-05-15T10:00",
	} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)), in)
	}

	got, err := ParseTime("2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseTime("15/05/2024")
	assert.Error(t, err)
	_, err = ParseTime(" ")
	assert.Error(t, err)

	assert.Equal(t, "2024-05-15T10:00:00.000Z", FormatTime(time.Date(2024, 5, 15, 12, 0, 0, 0, time.FixedZone("CEST", 7200))))
}

func TestUser_UnmarshalJSON(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"username":"kari"}`), &u))
	assert.Equal(t, "42", u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a-b","username":"kari"}`), &u))
	assert.Equal(t, "a-b", u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"username":"kari"}`), &u))
	assert.Empty(t, u.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &u))
}

func TestPaginationPatch_Apply(t *testing.T) {
	page := 3
	p := PaginationPatch{CurrentPage: &page}.Apply(DefaultPagination())
	assert.Equal(t, Pagination{CurrentPage: 3, TotalPages: 1, TotalItems: 0, ItemsPerPage: 10}, p)
}
