package coverage

import (
	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// GreedyProposal builds a naive baseline schedule for the range: for
// each date, staff with an "off" request are excluded, the morning shift
// takes the first required staff in roster order, and the evening shift
// takes the next required staff from those not already on morning. The
// fill order is the roster order on purpose; identical inputs always
// produce identical output.
func GreedyProposal(staffList []models.Staff, settings models.StoreSettings, requests []models.ShiftRequest, rng models.DateRange) models.Shifts {
	proposal := make(models.Shifts)
	for _, day := range dateutil.RangeDates(rng.Start, rng.End) {
		date := dateutil.FormatDate(day)

		available := make([]models.Staff, 0, len(staffList))
		for _, staff := range staffList {
			if !hasOffRequest(requests, staff.ID, date) {
				available = append(available, staff)
			}
		}

		morningRequired := RequiredCount(settings, date, models.ShiftMorning)
		eveningRequired := RequiredCount(settings, date, models.ShiftEvening)

		dayShifts := models.DayShifts{Morning: []string{}, Evening: []string{}}
		for i := 0; i < morningRequired && i < len(available); i++ {
			dayShifts.Morning = append(dayShifts.Morning, available[i].ID)
		}
		assigned := make(map[string]struct{}, len(dayShifts.Morning))
		for _, id := range dayShifts.Morning {
			assigned[id] = struct{}{}
		}
		for _, staff := range available {
			if len(dayShifts.Evening) >= eveningRequired {
				break
			}
			if _, ok := assigned[staff.ID]; ok {
				continue
			}
			dayShifts.Evening = append(dayShifts.Evening, staff.ID)
		}
		proposal[date] = dayShifts
	}
	return proposal
}

// GreedyFallback wraps GreedyProposal in the proposal shape the AI
// gateway returns, so callers handle both paths uniformly.
func GreedyFallback(staffList []models.Staff, settings models.StoreSettings, requests []models.ShiftRequest, rng models.DateRange) models.Proposal {
	shifts := GreedyProposal(staffList, settings, requests, rng)
	stats := CoverageStats(shifts, settings, rng)
	return models.Proposal{
		Success:           true,
		Shifts:            shifts,
		Summary:           "Schedule built with the baseline planner: day-off requests honored and each day's minimum staffing filled in roster order.",
		Conflicts:         []models.ProposalConflict{},
		OptimizationScore: stats.AdequacyRate,
	}
}

func hasOffRequest(requests []models.ShiftRequest, staffID, date string) bool {
	for _, req := range requests {
		if req.StaffID == staffID && req.Date == date && req.Type == models.RequestOff {
			return true
		}
	}
	return false
}
