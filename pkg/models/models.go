package models

import "time"

// ShiftType is one of the two fixed daily work periods.
type ShiftType string

const (
	ShiftMorning ShiftType = "morning"
	ShiftEvening ShiftType = "evening"
)

// ShiftTypes lists both periods in canonical order (morning first).
var ShiftTypes = []ShiftType{ShiftMorning, ShiftEvening}

// Role is a staff member's position in the salon.
type Role string

const (
	RoleStylist      Role = "stylist"
	RoleAssistant    Role = "assistant"
	RoleReceptionist Role = "receptionist"
	RoleNailist      Role = "nailist"
)

// Roles lists the valid roles in canonical order.
var Roles = []Role{RoleStylist, RoleAssistant, RoleReceptionist, RoleNailist}

// Staff represents a salon staff member.
type Staff struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
}

// TimeRange is a start/end pair in HH:MM 24-hour format.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ShiftWindows holds the time windows of the two daily shifts.
type ShiftWindows struct {
	Morning TimeRange `json:"morning"`
	Evening TimeRange `json:"evening"`
}

// DayRequirement is the minimum staff count per shift for one weekday.
type DayRequirement struct {
	Morning int `json:"morning"`
	Evening int `json:"evening"`
}

// Required returns the minimum for the given shift type.
func (r DayRequirement) Required(shift ShiftType) int {
	if shift == ShiftEvening {
		return r.Evening
	}
	return r.Morning
}

// StoreSettings is the single admin-owned store configuration.
// MinStaff has exactly 7 entries indexed Monday=0 through Sunday=6.
type StoreSettings struct {
	OpenTime  string           `json:"open_time"`
	CloseTime string           `json:"close_time"`
	Shifts    ShiftWindows     `json:"shifts"`
	MinStaff  []DayRequirement `json:"min_staff"`
}

// DayShifts holds the staff-id lists for one date. List order is
// insertion order and carries no meaning.
type DayShifts struct {
	Morning []string `json:"morning"`
	Evening []string `json:"evening"`
}

// Get returns the staff-id list for the given shift type.
func (d DayShifts) Get(shift ShiftType) []string {
	if shift == ShiftEvening {
		return d.Evening
	}
	return d.Morning
}

// Contains reports whether staffID appears in the given shift.
func (d DayShifts) Contains(shift ShiftType, staffID string) bool {
	for _, id := range d.Get(shift) {
		if id == staffID {
			return true
		}
	}
	return false
}

// Shifts maps an ISO date string (YYYY-MM-DD) to that day's assignments.
// Entries are created lazily on first assignment.
type Shifts map[string]DayShifts

// RequestType is a staff member's preference for a date.
type RequestType string

const (
	RequestOff     RequestType = "off"
	RequestMorning RequestType = "morning"
	RequestEvening RequestType = "evening"
	RequestAny     RequestType = "any"
)

// RequestTypes lists the valid preference types.
var RequestTypes = []RequestType{RequestOff, RequestMorning, RequestEvening, RequestAny}

// RequestPriority ranks how strongly a preference is held.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
)

// RequestPriorities lists the valid priorities.
var RequestPriorities = []RequestPriority{PriorityLow, PriorityMedium, PriorityHigh}

// RequestStatus is the review state of a submitted preference.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// ShiftRequest is a staff member's preference for a single date.
// At most one request exists per (StaffID, Date) pair.
type ShiftRequest struct {
	ID        string          `json:"id"`
	StaffID   string          `json:"staff_id"`
	Date      string          `json:"date"`
	Type      RequestType     `json:"type"`
	Reason    string          `json:"reason,omitempty"`
	Priority  RequestPriority `json:"priority"`
	Submitted time.Time       `json:"submitted"`
	Status    RequestStatus   `json:"status"`
}

// ShiftStatus is the lifecycle state of the scheduling period.
// Confirmed locks further preference changes.
type ShiftStatus string

const (
	StatusDraft     ShiftStatus = "draft"
	StatusConfirmed ShiftStatus = "confirmed"
)

// AppState is the aggregate application state owned by the store.
// CurrentStaffID is session-only and is not persisted.
type AppState struct {
	Staff          []Staff        `json:"staff"`
	StoreSettings  StoreSettings  `json:"store_settings"`
	Shifts         Shifts         `json:"shifts"`
	Requests       []ShiftRequest `json:"requests"`
	ShiftStatus    ShiftStatus    `json:"shift_status"`
	CurrentStaffID string         `json:"current_staff_id,omitempty"`
}

// ProposalConflict describes an issue the proposal generator could not
// resolve on a given date.
type ProposalConflict struct {
	Date        string   `json:"date"`
	Issue       string   `json:"issue"`
	Severity    string   `json:"severity"`
	Suggestions []string `json:"suggestions"`
}

// Proposal is a candidate full-period shift assignment. It is never
// applied to application state without an explicit apply action.
type Proposal struct {
	Success           bool               `json:"success"`
	Shifts            Shifts             `json:"shifts"`
	Summary           string             `json:"summary"`
	Conflicts         []ProposalConflict `json:"conflicts"`
	OptimizationScore float64            `json:"optimization_score"`
}

// DateRange bounds an inclusive span of ISO dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
