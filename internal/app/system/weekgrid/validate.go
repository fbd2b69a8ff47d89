package weekgrid

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// ValidationError reports header problems that block a save. Fields maps the
// header field name (as in HeaderField) to a message fit for display next to
// that field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(f HeaderField) string {
	if e == nil {
		return ""
	}
	return e.Fields[string(f)]
}

func (e *ValidationError) add(f HeaderField, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[string(f)]; !ok {
		e.Fields[string(f)] = msg
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func headerValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks the rules that must hold before a save: a program name, ISO
// dates, and the weekend date range. Cell text is free and never blocks a save.
func (m *Model) Validate() error {
	return ValidateHeader(m.Header, m.cfg.EnforceWeekendRange)
}

// ValidateHeader applies the save rules to a bare header.
func ValidateHeader(h Header, enforceWeekend bool) error {
	h.ProgramName = strings.TrimSpace(h.ProgramName)
	h.StartDate = strings.TrimSpace(h.StartDate)
	h.EndDate = strings.TrimSpace(h.EndDate)

	verr := &ValidationError{}
	if err := headerValidator().Struct(h); err != nil {
		var fe validator.ValidationErrors
		if !errors.As(err, &fe) {
			return fmt.Errorf("validate header: %w", err)
		}
		for _, e := range fe {
			verr.add(HeaderField(e.Field()), fieldMessage(e))
		}
	}

	if verr.Field(FieldStartDate) == "" && verr.Field(FieldEndDate) == "" {
		checkRange(verr, h, enforceWeekend)
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func checkRange(verr *ValidationError, h Header, enforceWeekend bool) {
	if enforceWeekend && (h.StartDate == "" || h.EndDate == "") {
		if h.StartDate == "" {
			verr.add(FieldStartDate, "Start date is required.")
		}
		if h.EndDate == "" {
			verr.add(FieldEndDate, "End date is required.")
		}
		return
	}
	if h.StartDate == "" || h.EndDate == "" {
		return
	}
	start, _ := time.Parse(dateLayout, h.StartDate)
	end, _ := time.Parse(dateLayout, h.EndDate)

	if enforceWeekend {
		if start.Weekday() != time.Saturday {
			verr.add(FieldStartDate, "Start date must be a Saturday.")
		}
		if !end.Equal(start.AddDate(0, 0, 1)) {
			verr.add(FieldEndDate, "End date must be the day after the start date.")
		}
		return
	}
	if end.Before(start) {
		verr.add(FieldEndDate, "End date cannot be before the start date.")
	}
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		switch HeaderField(e.Field()) {
		case FieldProgramName:
			return "Program name is required."
		}
		return "This field is required."
	case "datetime":
		return "Use a date like 2025-08-16."
	}
	return "Invalid value."
}
