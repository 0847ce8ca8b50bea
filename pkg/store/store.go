// Package store owns the application state: a single controller holding
// the aggregate state tree, exposing command methods that validate,
// apply and persist each mutation. Guards live here, in front of the
// mutation, so the state itself never holds an invalid transition.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhayashi/salon-shift-api/pkg/coverage"
	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
	"github.com/mhayashi/salon-shift-api/pkg/storage"
	"github.com/mhayashi/salon-shift-api/pkg/validation"
)

// Store is the single owner of the application state. Every mutation
// goes through a command method; reads go through Snapshot.
type Store struct {
	mu      sync.Mutex
	state   models.AppState
	gateway *storage.Gateway
}

// New loads the persisted record and builds the store around it.
func New(gateway *storage.Gateway) *Store {
	data := gateway.Load()
	return &Store{
		state: models.AppState{
			Staff:         data.Staff,
			StoreSettings: data.StoreSettings,
			Shifts:        data.Shifts,
			Requests:      data.Requests,
			ShiftStatus:   data.ShiftStatus,
		},
		gateway: gateway,
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// persist mirrors the full persisted subset of the state.
func (s *Store) persist() error {
	staff := s.state.Staff
	settings := s.state.StoreSettings
	shifts := s.state.Shifts
	requests := s.state.Requests
	status := s.state.ShiftStatus
	return s.gateway.Save(storage.Patch{
		Staff:         &staff,
		StoreSettings: &settings,
		Shifts:        &shifts,
		Requests:      &requests,
		ShiftStatus:   &status,
	})
}

// CreateStaff validates the form, rejects duplicate names and appends a
// new roster entry with a freshly assigned id.
func (s *Store) CreateStaff(form validation.StaffForm) (models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result := validation.ValidateStaff(form); !result.IsValid {
		return models.Staff{}, &ValidationError{Fields: result.Errors}
	}
	if validation.HasDuplicateName(s.state.Staff, form.Name, "") {
		return models.Staff{}, ErrDuplicateName
	}

	now := time.Now()
	staff := models.Staff{
		ID:        uuid.NewString(),
		Name:      trimmed(form.Name),
		Role:      form.Role,
		Email:     trimmed(form.Email),
		Phone:     trimmed(form.Phone),
		StartDate: &now,
	}
	s.state.Staff = append(s.state.Staff, staff)
	if err := s.persist(); err != nil {
		return models.Staff{}, err
	}
	return staff, nil
}

// UpdateStaff validates and applies an edit to an existing roster entry.
func (s *Store) UpdateStaff(id string, form validation.StaffForm) (models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.staffIndex(id)
	if idx < 0 {
		return models.Staff{}, ErrStaffNotFound
	}
	if result := validation.ValidateStaff(form); !result.IsValid {
		return models.Staff{}, &ValidationError{Fields: result.Errors}
	}
	if validation.HasDuplicateName(s.state.Staff, form.Name, id) {
		return models.Staff{}, ErrDuplicateName
	}

	staff := &s.state.Staff[idx]
	staff.Name = trimmed(form.Name)
	staff.Role = form.Role
	staff.Email = trimmed(form.Email)
	staff.Phone = trimmed(form.Phone)
	if err := s.persist(); err != nil {
		return models.Staff{}, err
	}
	return *staff, nil
}

// DeleteStaff removes a roster entry. Deletion is blocked while the id
// appears in any shift assignment, so shifts never reference ghosts.
func (s *Store) DeleteStaff(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.staffIndex(id)
	if idx < 0 {
		return ErrStaffNotFound
	}
	for _, day := range s.state.Shifts {
		if day.Contains(models.ShiftMorning, id) || day.Contains(models.ShiftEvening, id) {
			return ErrStaffHasShifts
		}
	}

	s.state.Staff = append(s.state.Staff[:idx], s.state.Staff[idx+1:]...)
	if s.state.CurrentStaffID == id {
		s.state.CurrentStaffID = ""
	}
	return s.persist()
}

// SelectStaff records the active staff member for the session. An empty
// id clears the selection. The selection is not persisted.
func (s *Store) SelectStaff(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.staffIndex(id) < 0 {
		return ErrStaffNotFound
	}
	s.state.CurrentStaffID = id
	return nil
}

// SaveSettings validates and replaces the store configuration wholesale.
func (s *Store) SaveSettings(settings models.StoreSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result := validation.ValidateSettings(settings); !result.IsValid {
		return &ValidationError{Fields: result.Errors}
	}
	s.state.StoreSettings = settings
	return s.persist()
}

// AssignShift adds a staff member to one shift of one date. Assigning
// the same shift twice or the opposite shift of the same day is refused.
func (s *Store) AssignShift(date string, shift models.ShiftType, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := dateutil.ParseDate(date); err != nil {
		return ErrInvalidDate
	}
	if s.staffIndex(staffID) < 0 {
		return ErrStaffNotFound
	}

	day := s.state.Shifts[date]
	if day.Contains(shift, staffID) {
		return ErrAlreadyAssigned
	}
	if day.Contains(opposite(shift), staffID) {
		return ErrOppositeShift
	}

	if shift == models.ShiftMorning {
		day.Morning = append(day.Morning, staffID)
	} else {
		day.Evening = append(day.Evening, staffID)
	}
	s.state.Shifts[date] = day
	return s.persist()
}

// RemoveFromShift takes a staff member off one shift of one date.
func (s *Store) RemoveFromShift(date string, shift models.ShiftType, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.state.Shifts[date]
	if !ok || !day.Contains(shift, staffID) {
		return ErrNotAssigned
	}

	if shift == models.ShiftMorning {
		day.Morning = remove(day.Morning, staffID)
	} else {
		day.Evening = remove(day.Evening, staffID)
	}
	s.state.Shifts[date] = day
	return s.persist()
}

// ClearDay empties both shifts of one date.
func (s *Store) ClearDay(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := dateutil.ParseDate(date); err != nil {
		return ErrInvalidDate
	}
	s.state.Shifts[date] = models.DayShifts{Morning: []string{}, Evening: []string{}}
	return s.persist()
}

// ClearAllShifts replaces the whole shift mapping with an empty one.
func (s *Store) ClearAllShifts() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Shifts = models.Shifts{}
	return s.persist()
}

// ApplyProposal merges an accepted proposal's assignments over the
// current shifts. Only successful proposals are applicable; this is the
// explicit confirmation step, never triggered by the gateway itself.
// The whole proposal is checked before anything is merged: a rejected
// proposal leaves the schedule untouched.
func (s *Store) ApplyProposal(proposal models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !proposal.Success {
		return ErrProposalUnusable
	}

	fields := make(map[string]string)
	for date, day := range proposal.Shifts {
		if _, err := dateutil.ParseDate(date); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		for _, shift := range models.ShiftTypes {
			result := validation.ValidateAssignment(shift, day.Get(shift), s.state.Staff, 0)
			for field, msg := range result.Errors {
				fields[fmt.Sprintf("%s.%s.%s", date, shift, field)] = msg
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	for date, day := range proposal.Shifts {
		s.state.Shifts[date] = day
	}
	return s.persist()
}

// SubmitRequest validates and appends a preference request. One request
// per (staff, date); locked once the schedule is confirmed.
func (s *Store) SubmitRequest(staffID string, form validation.RequestForm, now time.Time) (models.ShiftRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ShiftStatus == models.StatusConfirmed {
		return models.ShiftRequest{}, ErrScheduleConfirmed
	}
	if s.staffIndex(staffID) < 0 {
		return models.ShiftRequest{}, ErrStaffNotFound
	}
	if result := validation.ValidateRequest(form, now); !result.IsValid {
		return models.ShiftRequest{}, &ValidationError{Fields: result.Errors}
	}
	for _, req := range s.state.Requests {
		if req.StaffID == staffID && req.Date == form.Date {
			return models.ShiftRequest{}, ErrDuplicateRequest
		}
	}

	request := models.ShiftRequest{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		Date:      form.Date,
		Type:      form.Type,
		Reason:    form.Reason,
		Priority:  form.Priority,
		Submitted: now,
		Status:    models.StatusPending,
	}
	s.state.Requests = append(s.state.Requests, request)
	if err := s.persist(); err != nil {
		return models.ShiftRequest{}, err
	}
	return request, nil
}

// RequestUpdate is a partial edit of a request; nil fields are kept.
type RequestUpdate struct {
	Date     *string                 `json:"date,omitempty"`
	Type     *models.RequestType     `json:"type,omitempty"`
	Priority *models.RequestPriority `json:"priority,omitempty"`
	Reason   *string                 `json:"reason,omitempty"`
}

// EditRequest merges an update over an existing request, re-validates
// the result and re-checks the one-request-per-date rule when the date
// moves. Locked once the schedule is confirmed.
func (s *Store) EditRequest(id string, update RequestUpdate, now time.Time) (models.ShiftRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ShiftStatus == models.StatusConfirmed {
		return models.ShiftRequest{}, ErrScheduleConfirmed
	}
	idx := s.requestIndex(id)
	if idx < 0 {
		return models.ShiftRequest{}, ErrRequestNotFound
	}

	merged := s.state.Requests[idx]
	if update.Date != nil {
		merged.Date = *update.Date
	}
	if update.Type != nil {
		merged.Type = *update.Type
	}
	if update.Priority != nil {
		merged.Priority = *update.Priority
	}
	if update.Reason != nil {
		merged.Reason = *update.Reason
	}

	form := validation.RequestForm{Date: merged.Date, Type: merged.Type, Priority: merged.Priority, Reason: merged.Reason}
	if result := validation.ValidateRequest(form, now); !result.IsValid {
		return models.ShiftRequest{}, &ValidationError{Fields: result.Errors}
	}
	if merged.Date != s.state.Requests[idx].Date {
		for _, req := range s.state.Requests {
			if req.ID != id && req.StaffID == merged.StaffID && req.Date == merged.Date {
				return models.ShiftRequest{}, ErrDuplicateRequest
			}
		}
	}

	s.state.Requests[idx] = merged
	if err := s.persist(); err != nil {
		return models.ShiftRequest{}, err
	}
	return merged, nil
}

// DeleteRequest removes a request. Locked once the schedule is confirmed.
func (s *Store) DeleteRequest(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ShiftStatus == models.StatusConfirmed {
		return ErrScheduleConfirmed
	}
	idx := s.requestIndex(id)
	if idx < 0 {
		return ErrRequestNotFound
	}
	s.state.Requests = append(s.state.Requests[:idx], s.state.Requests[idx+1:]...)
	return s.persist()
}

// ApproveRequest marks a pending request approved.
func (s *Store) ApproveRequest(id string) error {
	return s.resolveRequest(id, models.StatusApproved)
}

// DenyRequest marks a pending request denied.
func (s *Store) DenyRequest(id string) error {
	return s.resolveRequest(id, models.StatusDenied)
}

func (s *Store) resolveRequest(id string, status models.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.requestIndex(id)
	if idx < 0 {
		return ErrRequestNotFound
	}
	if s.state.Requests[idx].Status != models.StatusPending {
		return ErrRequestProcessed
	}
	s.state.Requests[idx].Status = status
	return s.persist()
}

// PruneRequests drops requests whose date is more than olderThanDays
// before now and returns how many were removed.
func (s *Store) PruneRequests(olderThanDays int, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := dateutil.AddDays(now, -olderThanDays)
	kept := s.state.Requests[:0]
	removed := 0
	for _, req := range s.state.Requests {
		d, err := dateutil.ParseDate(req.Date)
		if err == nil && d.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, req)
	}
	if removed == 0 {
		return 0, nil
	}
	s.state.Requests = kept
	return removed, s.persist()
}

// ConfirmSchedule locks the schedule for the given month. Confirmation
// is refused while any day of that month is below its minimums.
func (s *Store) ConfirmSchedule(month time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng := models.DateRange{
		Start: dateutil.FormatDate(dateutil.StartOfMonth(month)),
		End:   dateutil.FormatDate(dateutil.EndOfMonth(month)),
	}
	var short []string
	seen := make(map[string]struct{})
	for _, u := range coverage.UnderstaffedShifts(s.state.Shifts, s.state.StoreSettings, rng) {
		if _, ok := seen[u.Date]; !ok {
			seen[u.Date] = struct{}{}
			short = append(short, u.Date)
		}
	}
	if len(short) > 0 {
		return &UnderstaffedError{Dates: short}
	}

	s.state.ShiftStatus = models.StatusConfirmed
	return s.persist()
}

// ReopenSchedule returns the schedule to draft so requests and edits
// flow again.
func (s *Store) ReopenSchedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ShiftStatus = models.StatusDraft
	return s.persist()
}

// Export serializes the persisted record.
func (s *Store) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateway.Export()
}

// Import replaces the persisted record and reloads the in-memory state
// from it. A rejected payload leaves both untouched.
func (s *Store) Import(payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.Import(payload); err != nil {
		return err
	}
	s.reload()
	return nil
}

// Reset clears the persisted record and reloads the built-in defaults.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.Clear(); err != nil {
		return err
	}
	s.reload()
	return nil
}

func (s *Store) reload() {
	data := s.gateway.Load()
	s.state.Staff = data.Staff
	s.state.StoreSettings = data.StoreSettings
	s.state.Shifts = data.Shifts
	s.state.Requests = data.Requests
	s.state.ShiftStatus = data.ShiftStatus
	s.state.CurrentStaffID = ""
}

func (s *Store) staffIndex(id string) int {
	for i, staff := range s.state.Staff {
		if staff.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) requestIndex(id string) int {
	for i, req := range s.state.Requests {
		if req.ID == id {
			return i
		}
	}
	return -1
}

func opposite(shift models.ShiftType) models.ShiftType {
	if shift == models.ShiftMorning {
		return models.ShiftEvening
	}
	return models.ShiftMorning
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func copyState(state models.AppState) models.AppState {
	out := state
	out.Staff = append([]models.Staff(nil), state.Staff...)
	out.Requests = append([]models.ShiftRequest(nil), state.Requests...)
	out.Shifts = make(models.Shifts, len(state.Shifts))
	for date, day := range state.Shifts {
		out.Shifts[date] = models.DayShifts{
			Morning: append([]string(nil), day.Morning...),
			Evening: append([]string(nil), day.Evening...),
		}
	}
	out.StoreSettings.MinStaff = append([]models.DayRequirement(nil), state.StoreSettings.MinStaff...)
	return out
}
