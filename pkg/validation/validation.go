// Package validation holds the field-level rules for staff records,
// preference requests and store settings. Rules are independent and a
// single pass collects every violation, so a form can show all of its
// errors at once. Results are data, never errors.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// Result reports the outcome of validating one form.
type Result struct {
	IsValid bool              `json:"is_valid"`
	Errors  map[string]string `json:"errors"`
}

func newResult(errors map[string]string) Result {
	return Result{IsValid: len(errors) == 0, Errors: errors}
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[\d\-()+\s]+$`)
	timeRe  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// StaffForm is the submitted shape of a staff create/edit.
type StaffForm struct {
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
}

// ValidateStaff checks a staff form: name required (2-50 runes), role
// one of the four known values, email and phone optional but well-formed.
func ValidateStaff(form StaffForm) Result {
	errors := make(map[string]string)

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		errors["name"] = "name is required"
	case len([]rune(name)) < 2:
		errors["name"] = "name must be at least 2 characters"
	case len([]rune(name)) > 50:
		errors["name"] = "name must be at most 50 characters"
	}

	if form.Role == "" {
		errors["role"] = "role is required"
	} else if !validRole(form.Role) {
		errors["role"] = "role must be one of stylist, assistant, receptionist, nailist"
	}

	if email := strings.TrimSpace(form.Email); email != "" && !emailRe.MatchString(email) {
		errors["email"] = "email address is not valid"
	}
	if phone := strings.TrimSpace(form.Phone); phone != "" && !phoneRe.MatchString(phone) {
		errors["phone"] = "phone number is not valid"
	}

	return newResult(errors)
}

// RequestForm is the submitted shape of a preference request.
type RequestForm struct {
	Date     string                 `json:"date"`
	Type     models.RequestType     `json:"type"`
	Priority models.RequestPriority `json:"priority"`
	Reason   string                 `json:"reason"`
}

// ValidateRequest checks a request form against the given "today":
// date required and not in the past at day granularity, type and
// priority from their enums, reason at most 200 runes.
func ValidateRequest(form RequestForm, today time.Time) Result {
	errors := make(map[string]string)

	if form.Date == "" {
		errors["date"] = "date is required"
	} else if d, err := dateutil.ParseDate(form.Date); err != nil {
		errors["date"] = "date must be in YYYY-MM-DD format"
	} else {
		midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(midnight) {
			errors["date"] = "date must not be in the past"
		}
	}

	if form.Type == "" {
		errors["type"] = "request type is required"
	} else if !validRequestType(form.Type) {
		errors["type"] = "request type must be one of off, morning, evening, any"
	}

	if form.Priority == "" {
		errors["priority"] = "priority is required"
	} else if !validPriority(form.Priority) {
		errors["priority"] = "priority must be one of low, medium, high"
	}

	if len([]rune(form.Reason)) > 200 {
		errors["reason"] = "reason must be at most 200 characters"
	}

	return newResult(errors)
}

// ValidateSettings checks store settings: business hours and both shift
// windows required, HH:MM formatted and strictly start-before-end (no
// overnight windows), and all 7 weekly minimums non-negative.
func ValidateSettings(settings models.StoreSettings) Result {
	errors := make(map[string]string)

	checkTime(errors, "open_time", settings.OpenTime)
	checkTime(errors, "close_time", settings.CloseTime)
	if errors["open_time"] == "" && errors["close_time"] == "" {
		if minutes(settings.OpenTime) >= minutes(settings.CloseTime) {
			errors["close_time"] = "closing time must be after opening time"
		}
	}

	checkWindow(errors, "morning", settings.Shifts.Morning)
	checkWindow(errors, "evening", settings.Shifts.Evening)

	if len(settings.MinStaff) != 7 {
		errors["min_staff"] = "weekly minimums must have 7 entries, Monday through Sunday"
	}
	for i, req := range settings.MinStaff {
		if req.Morning < 0 {
			errors[fmt.Sprintf("min_staff.%d.morning", i)] = "morning minimum must be a non-negative integer"
		}
		if req.Evening < 0 {
			errors[fmt.Sprintf("min_staff.%d.evening", i)] = "evening minimum must be a non-negative integer"
		}
	}

	return newResult(errors)
}

// HasDuplicateName reports whether another staff member already carries
// the name, compared case-insensitively and ignoring surrounding
// whitespace. excludeID skips the record being edited.
func HasDuplicateName(staffList []models.Staff, name, excludeID string) bool {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, staff := range staffList {
		if staff.ID != excludeID && strings.ToLower(strings.TrimSpace(staff.Name)) == want {
			return true
		}
	}
	return false
}

// ValidateAssignment checks a whole-shift staff list: every id must
// exist in the roster, the list must meet the minimum, and no id may
// repeat.
func ValidateAssignment(shift models.ShiftType, staffIDs []string, roster []models.Staff, minRequired int) Result {
	errors := make(map[string]string)

	known := make(map[string]struct{}, len(roster))
	for _, staff := range roster {
		known[staff.ID] = struct{}{}
	}
	var unknown []string
	for _, id := range staffIDs {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		errors["staff"] = "unknown staff ids: " + strings.Join(unknown, ", ")
	}

	if len(staffIDs) < minRequired {
		errors["minimum"] = fmt.Sprintf("the %s shift needs at least %d staff", shift, minRequired)
	}

	seen := make(map[string]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		if _, ok := seen[id]; ok {
			errors["duplicates"] = "the same staff member is assigned more than once"
			break
		}
		seen[id] = struct{}{}
	}

	return newResult(errors)
}

func checkTime(errors map[string]string, field, value string) {
	if value == "" {
		errors[field] = field + " is required"
	} else if !timeRe.MatchString(value) {
		errors[field] = field + " must be in HH:MM 24-hour format"
	}
}

func checkWindow(errors map[string]string, name string, window models.TimeRange) {
	startField := name + ".start"
	endField := name + ".end"
	checkTime(errors, startField, window.Start)
	checkTime(errors, endField, window.End)
	if errors[startField] == "" && errors[endField] == "" {
		if minutes(window.Start) >= minutes(window.End) {
			errors[endField] = name + " shift must end after it starts"
		}
	}
}

// minutes assumes the value already matched the HH:MM pattern.
func minutes(value string) int {
	m, _ := dateutil.TimeToMinutes(value)
	return m
}

func validRole(role models.Role) bool {
	for _, r := range models.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func validRequestType(t models.RequestType) bool {
	for _, rt := range models.RequestTypes {
		if rt == t {
			return true
		}
	}
	return false
}

func validPriority(p models.RequestPriority) bool {
	for _, rp := range models.RequestPriorities {
		if rp == p {
			return true
		}
	}
	return false
}
