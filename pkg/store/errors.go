package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Guard rejections. These are expected business-rule outcomes, reported
// as values so callers can turn them into user-facing messages.
var (
	ErrStaffNotFound     = errors.New("staff member not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrStaffHasShifts    = errors.New("staff member still has assigned shifts")
	ErrDuplicateName     = errors.New("a staff member with this name already exists")
	ErrDuplicateRequest  = errors.New("a request for this date has already been submitted")
	ErrScheduleConfirmed = errors.New("the schedule is confirmed and requests are locked")
	ErrAlreadyAssigned   = errors.New("staff member is already assigned to this shift")
	ErrOppositeShift     = errors.New("staff member is already assigned to the other shift that day")
	ErrNotAssigned       = errors.New("staff member is not assigned to this shift")
	ErrRequestProcessed  = errors.New("request has already been processed")
	ErrProposalUnusable  = errors.New("proposal is not usable")
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
)

// ValidationError carries the field-keyed messages of a failed form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// UnderstaffedError rejects a confirmation while any day of the period
// is below its minimums.
type UnderstaffedError struct {
	Dates []string
}

func (e *UnderstaffedError) Error() string {
	preview := e.Dates
	suffix := ""
	if len(preview) > 3 {
		preview = preview[:3]
		suffix = ", ..."
	}
	return fmt.Sprintf("schedule is understaffed on %s%s", strings.Join(preview, ", "), suffix)
}
