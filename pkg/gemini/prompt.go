package gemini

import (
	"fmt"
	"strings"

	"github.com/mhayashi/salon-shift-api/pkg/dateutil"
	"github.com/mhayashi/salon-shift-api/pkg/models"
)

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// BuildPrompt renders the scheduling task as a deterministic text prompt.
// Identical inputs always yield an identical prompt: staff are grouped by
// role in canonical role order, requests in first-appearance order.
func BuildPrompt(staffList []models.Staff, settings models.StoreSettings, requests []models.ShiftRequest, period models.DateRange) string {
	var b strings.Builder

	b.WriteString("You are a shift scheduler for a hair salon. Build a complete shift plan.\n\n")

	fmt.Fprintf(&b, "Scheduling period: %s through %s (inclusive).\n", period.Start, period.End)
	fmt.Fprintf(&b, "Business hours: %s-%s.\n", settings.OpenTime, settings.CloseTime)
	fmt.Fprintf(&b, "Morning shift: %s-%s. Evening shift: %s-%s.\n\n",
		settings.Shifts.Morning.Start, settings.Shifts.Morning.End,
		settings.Shifts.Evening.Start, settings.Shifts.Evening.End)

	b.WriteString("Staff by role:\n")
	for _, role := range models.Roles {
		var names []string
		for _, staff := range staffList {
			if staff.Role == role {
				names = append(names, fmt.Sprintf("%s (id %s)", staff.Name, staff.ID))
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", role, strings.Join(names, ", "))
		}
	}

	b.WriteString("\nMinimum staff per weekday (morning/evening):\n")
	for i, req := range settings.MinStaff {
		if i >= len(weekdayNames) {
			break
		}
		fmt.Fprintf(&b, "- %s: %d/%d\n", weekdayNames[i], req.Morning, req.Evening)
	}

	if len(requests) > 0 {
		b.WriteString("\nStaff preferences, in priority order within each staff member:\n")
		for _, staff := range staffList {
			for _, req := range requests {
				if req.StaffID != staff.ID {
					continue
				}
				line := fmt.Sprintf("- %s on %s wants %q (priority %s)", staff.Name, req.Date, req.Type, req.Priority)
				if req.Reason != "" {
					line += fmt.Sprintf(", reason: %s", req.Reason)
				}
				b.WriteString(line + "\n")
			}
		}
	}

	b.WriteString(`
Rules:
- Every date of the period must appear in the plan.
- Never assign the same staff member to both shifts of one day.
- Honor "off" requests whenever minimums allow; prefer high priority.
- Meet or exceed the weekday minimums for both shifts.

Respond with ONLY a JSON object, no prose and no code fences, shaped as:
{
  "success": true,
  "shifts": { "YYYY-MM-DD": { "morning": ["staff-id"], "evening": ["staff-id"] } },
  "summary": "one paragraph describing the plan",
  "conflicts": [ { "date": "YYYY-MM-DD", "issue": "...", "severity": "low|medium|high", "suggestions": ["..."] } ],
  "optimization_score": 0.0
}
Use staff ids, never names, inside "shifts".
`)

	dates := dateutil.RangeDates(period.Start, period.End)
	if len(dates) > 0 {
		b.WriteString("\nDates to cover: ")
		parts := make([]string, len(dates))
		for i, d := range dates {
			parts[i] = dateutil.FormatDate(d)
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
