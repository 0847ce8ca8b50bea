package gemini

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// ParseProposal turns the model's reply text into a Proposal. Replies
// are often wrapped in markdown code fences; those are stripped before
// decoding. A reply that cannot be decoded, or that lacks the required
// fields, yields a failure Proposal instead of an error so the caller
// always has something to show.
func ParseProposal(reply string) models.Proposal {
	cleaned := stripFences(reply)

	var proposal models.Proposal
	if err := json.Unmarshal([]byte(cleaned), &proposal); err != nil {
		log.Warn().Err(err).Msg("Could not decode model reply as a proposal")
		return failureProposal("The AI reply was not valid JSON.")
	}
	if proposal.Shifts == nil || proposal.Summary == "" {
		return failureProposal("The AI reply was missing the shift plan or summary.")
	}
	if proposal.Conflicts == nil {
		proposal.Conflicts = []models.ProposalConflict{}
	}
	return proposal
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func failureProposal(issue string) models.Proposal {
	return models.Proposal{
		Success: false,
		Shifts:  models.Shifts{},
		Summary: "The AI could not produce a usable schedule.",
		Conflicts: []models.ProposalConflict{{
			Date:        "",
			Issue:       issue,
			Severity:    "high",
			Suggestions: []string{"Try generating again.", "Use the baseline planner instead."},
		}},
		OptimizationScore: 0,
	}
}
