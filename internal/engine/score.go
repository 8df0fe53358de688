package engine

import (
	"math"
	"sort"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
)

// Band is the coarse status tier shown next to the numeric score.
type Band string

const (
	BandNeedsDetail Band = "needs-detail"
	BandGood        Band = "good"
	BandExcellent   Band = "excellent"
)

// CompletenessScore is the 0–100 measure of how much of the blueprint's
// required and optional content has been answered.
type CompletenessScore struct {
	Value int  `json:"value"`
	Band  Band `json:"band"`
}

// SectionBreakdown reports one section's contribution, for display.
type SectionBreakdown struct {
	SectionID    string  `json:"section_id"`
	Weight       float64 `json:"weight"` // after normalization
	RequiredMet  int     `json:"required_met"`
	RequiredAll  int     `json:"required_total"`
	OptionalMet  int     `json:"optional_met"`
	OptionalAll  int     `json:"optional_total"`
	Contribution float64 `json:"contribution"`
}

// Score computes the completeness score. It is a pure function of the
// blueprint, the answer snapshot, and the config: repeated calls on the
// same inputs return the same value.
func Score(idx *blueprint.Index, snapshot map[blueprint.FieldID]answers.Value, cfg *Config) CompletenessScore {
	score, _ := ScoreWithBreakdown(idx, snapshot, cfg)
	return score
}

// ScoreWithBreakdown computes the score plus per-section detail, ordered
// by the blueprint's section order.
func ScoreWithBreakdown(idx *blueprint.Index, snapshot map[blueprint.FieldID]answers.Value, cfg *Config) (CompletenessScore, []SectionBreakdown) {
	// Weights are normalized to 100 before use; a table that does not
	// sum to 100 is recoverable input, not an error.
	total := 0.0
	for _, rule := range cfg.Sections {
		if rule.Weight > 0 {
			total += rule.Weight
		}
	}
	if total <= 0 {
		return CompletenessScore{Value: 0, Band: cfg.band(0)}, nil
	}

	var breakdown []SectionBreakdown
	sum := 0.0
	for sectionID, rule := range cfg.Sections {
		if rule.Weight <= 0 {
			continue
		}
		weight := rule.Weight / total * 100

		requiredMet := 0
		for _, id := range rule.Required {
			if fieldMet(idx, snapshot, id) {
				requiredMet++
			}
		}
		optionalMet := 0
		for _, id := range rule.Optional {
			if fieldMet(idx, snapshot, id) {
				optionalMet++
			}
		}

		// A section with no required fields is fully satisfied by
		// definition; only its optional bonus can add on top, and the
		// total is already at the cap.
		ratio := 1.0
		if len(rule.Required) > 0 {
			ratio = clamp01(float64(requiredMet) / float64(len(rule.Required)))
		}
		contribution := ratio * weight

		if len(rule.Optional) > 0 {
			bonus := float64(optionalMet) / float64(len(rule.Optional)) * cfg.bonusCap() * weight
			contribution += bonus
		}
		if contribution > weight {
			contribution = weight
		}

		sum += contribution
		breakdown = append(breakdown, SectionBreakdown{
			SectionID:    sectionID,
			Weight:       weight,
			RequiredMet:  requiredMet,
			RequiredAll:  len(rule.Required),
			OptionalMet:  optionalMet,
			OptionalAll:  len(rule.Optional),
			Contribution: contribution,
		})
	}

	value := int(math.Round(sum))
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	orderBySection(idx, breakdown)
	return CompletenessScore{Value: value, Band: cfg.band(value)}, breakdown
}

// band maps a clamped score to its tier. 50 and 80 are inclusive lower
// bounds of "good" and "excellent".
func (c *Config) band(value int) Band {
	switch {
	case value >= c.excellentAt():
		return BandExcellent
	case value >= c.goodAt():
		return BandGood
	default:
		return BandNeedsDetail
	}
}

// fieldMet reports whether a field counts toward the score: it must
// exist in the blueprint (orphans are excluded from scoring) and carry
// an answered value.
func fieldMet(idx *blueprint.Index, snapshot map[blueprint.FieldID]answers.Value, id blueprint.FieldID) bool {
	if _, ok := idx.FindField(id); !ok {
		return false
	}
	v, ok := snapshot[id]
	return ok && v != nil && v.IsAnswered()
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func orderBySection(idx *blueprint.Index, breakdown []SectionBreakdown) {
	pos := make(map[string]int, len(idx.Blueprint().Sections))
	for i, sec := range idx.Blueprint().Sections {
		pos[sec.SectionID] = i
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return pos[breakdown[i].SectionID] < pos[breakdown[j].SectionID]
	})
}
