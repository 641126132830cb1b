// Package validation checks create and update payloads before they are sent
// to the Gateway and turns failures into field-scoped messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/straye-as/relation-sync/internal/domain"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	schemePattern = regexp.MustCompile(`^https?://`)
)

// Custom tags
const (
	TagEmail    = "crmemail"
	TagPhone    = "crmphone"
	TagURL      = "schemeurl"
	TagISODate  = "isodate"
	TagNotBlank = "notblank"
	TagEndDate  = "endafterstart"
)

// messages that do not follow the "<Field Name> is required" pattern
var requiredOverrides = map[string]string{
	"start_date": "Start date is required",
	"end_date":   "End date is required",
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, TagEmail, matches(emailPattern))
	mustRegister(v, TagPhone, matches(phonePattern))
	mustRegister(v, TagURL, matches(schemePattern))
	mustRegister(v, TagISODate, func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTime(fl.Field().String())
		return err == nil
	})
	mustRegister(v, TagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.RegisterStructValidation(eventDates, domain.CalendarEventInput{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// eventDates rejects events that end before they start
func eventDates(sl validator.StructLevel) {
	in := sl.Current().Interface().(domain.CalendarEventInput)
	if in.StartDate == "" || in.EndDate == "" {
		return
	}
	start, err := domain.ParseTime(in.StartDate)
	if err != nil {
		return
	}
	end, err := domain.ParseTime(in.EndDate)
	if err != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(in.EndDate, "end_date", "EndDate", TagEndDate, "")
	}
}

// Validate checks s against its struct tags. It returns nil or a
// *domain.ValidationError keyed by JSON field name.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}
	return FromFieldErrors(fieldErrs)
}

// FromFieldErrors converts validator output into a ValidationError.
// The first failure per field wins, except that a date-order failure replaces
// any earlier message on end_date.
func FromFieldErrors(fieldErrs validator.ValidationErrors) *domain.ValidationError {
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if _, seen := fields[name]; seen && fe.Tag() != TagEndDate {
			continue
		}
		fields[name] = Message(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// Message renders the user-facing text for one field failure
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", TagNotBlank:
		if msg, ok := requiredOverrides[fe.Field()]; ok {
			return msg
		}
		return Humanize(fe.Field()) + " is required"
	case TagEmail:
		return "Please enter a valid email address"
	case TagPhone:
		return "Please enter a valid phone number"
	case TagURL:
		return "Please enter a valid URL starting with http:// or https://"
	case TagISODate:
		return "Please enter a valid date"
	case TagEndDate:
		return "End date must be after start date"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return "Invalid value"
	}
}

// Humanize turns a snake_case field name into "Title Case" words
func Humanize(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
