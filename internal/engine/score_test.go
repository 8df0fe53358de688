package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
)

// oneSectionIndex builds a single-section blueprint with free-text
// questions A, B, C.
func oneSectionIndex(t *testing.T) *blueprint.Index {
	t.Helper()
	bp := blueprint.Blueprint{
		FormID: "bp-score",
		Title:  "Scoring",
		Sections: []blueprint.Section{
			{
				SectionID: "s1",
				Title:     "Only",
				Components: []blueprint.Component{
					{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
						{ID: "A", QuestionText: "A?", InputType: blueprint.InputText},
						{ID: "B", QuestionText: "B?", InputType: blueprint.InputText},
						{ID: "C", QuestionText: "C?", InputType: blueprint.InputText},
					}}},
				},
			},
		},
	}
	idx, err := blueprint.FromBlueprint(&bp)
	require.NoError(t, err)
	return idx
}

func oneSectionConfig() *Config {
	return &Config{Sections: map[string]SectionRule{
		"s1": {Weight: 100, Required: []blueprint.FieldID{"A", "B"}, Optional: []blueprint.FieldID{"C"}},
	}}
}

func snap(pairs map[string]string) map[blueprint.FieldID]answers.Value {
	out := make(map[blueprint.FieldID]answers.Value, len(pairs))
	for k, v := range pairs {
		out[blueprint.FieldID(k)] = answers.Text{Text: v}
	}
	return out
}

func TestScore_HalfRequiredLandsOnGoodBoundary(t *testing.T) {
	idx := oneSectionIndex(t)

	got := Score(idx, snap(map[string]string{"A": "x"}), oneSectionConfig())
	assert.Equal(t, 50, got.Value)
	assert.Equal(t, BandGood, got.Band)
}

func TestScore_AllRequiredIsExcellentRegardlessOfOptional(t *testing.T) {
	idx := oneSectionIndex(t)

	got := Score(idx, snap(map[string]string{"A": "x", "B": "y"}), oneSectionConfig())
	assert.Equal(t, 100, got.Value)
	assert.Equal(t, BandExcellent, got.Band)
}

func TestScore_Deterministic(t *testing.T) {
	idx := oneSectionIndex(t)
	s := snap(map[string]string{"A": "x", "C": "z"})
	cfg := oneSectionConfig()

	first := Score(idx, s, cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(idx, s, cfg))
	}
}

func TestScore_FillingRequiredFieldNeverDecreasesScore(t *testing.T) {
	idx := oneSectionIndex(t)
	cfg := oneSectionConfig()

	before := Score(idx, snap(map[string]string{"C": "z"}), cfg)
	after := Score(idx, snap(map[string]string{"C": "z", "A": "x"}), cfg)
	assert.GreaterOrEqual(t, after.Value, before.Value)

	final := Score(idx, snap(map[string]string{"C": "z", "A": "x", "B": "y"}), cfg)
	assert.GreaterOrEqual(t, final.Value, after.Value)
}

func TestScore_BandBoundaries(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, BandNeedsDetail, cfg.band(49))
	assert.Equal(t, BandGood, cfg.band(50))
	assert.Equal(t, BandGood, cfg.band(79))
	assert.Equal(t, BandExcellent, cfg.band(80))
	assert.Equal(t, BandExcellent, cfg.band(100))
	assert.Equal(t, BandNeedsDetail, cfg.band(0))
}

func TestScore_OptionalBonusCappedAtTenPercent(t *testing.T) {
	idx := oneSectionIndex(t)
	cfg := oneSectionConfig()

	// Only the optional field filled: base 0, bonus 10% of weight 100.
	got := Score(idx, snap(map[string]string{"C": "z"}), cfg)
	assert.Equal(t, 10, got.Value)

	// Section contribution never exceeds its weight.
	full := Score(idx, snap(map[string]string{"A": "x", "B": "y", "C": "z"}), cfg)
	assert.Equal(t, 100, full.Value)
}

func TestScore_WeightsNormalizedBeforeUse(t *testing.T) {
	idx := oneSectionIndex(t)
	// Weights summing to 50 instead of 100 behave identically.
	cfg := &Config{Sections: map[string]SectionRule{
		"s1": {Weight: 50, Required: []blueprint.FieldID{"A", "B"}},
	}}

	got := Score(idx, snap(map[string]string{"A": "x"}), cfg)
	assert.Equal(t, 50, got.Value)
}

func TestScore_ZeroRequiredSectionIsFullySatisfied(t *testing.T) {
	idx := oneSectionIndex(t)
	cfg := &Config{Sections: map[string]SectionRule{
		"s1": {Weight: 100, Optional: []blueprint.FieldID{"C"}},
	}}

	// No required fields: the section does not depress the score.
	got := Score(idx, nil, cfg)
	assert.Equal(t, 100, got.Value)
}

func TestScore_OrphanedRequiredFieldExcluded(t *testing.T) {
	idx := oneSectionIndex(t)
	cfg := &Config{Sections: map[string]SectionRule{
		"s1": {Weight: 100, Required: []blueprint.FieldID{"A", "ghost"}},
	}}

	// "ghost" is not in the blueprint: it can never be met, and an
	// answer under that key is excluded from scoring.
	s := snap(map[string]string{"A": "x", "ghost": "boo"})
	got := Score(idx, s, cfg)
	assert.Equal(t, 50, got.Value)
}

func TestScore_UnansweredMultiChoiceNotMet(t *testing.T) {
	bp := blueprint.Blueprint{
		FormID: "bp-mc",
		Title:  "MC",
		Sections: []blueprint.Section{
			{SectionID: "s1", Title: "Only", Components: []blueprint.Component{
				{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
					{ID: "m", QuestionText: "Pick", InputType: blueprint.InputMultiChoice, Options: []string{"a", "b"}},
				}}},
			}},
		},
	}
	idx, err := blueprint.FromBlueprint(&bp)
	require.NoError(t, err)
	cfg := &Config{Sections: map[string]SectionRule{
		"s1": {Weight: 100, Required: []blueprint.FieldID{"m"}},
	}}

	// An empty selection set is present but unanswered.
	s := map[blueprint.FieldID]answers.Value{"m": answers.MultiChoice{}}
	got := Score(idx, s, cfg)
	assert.Equal(t, 0, got.Value)

	result := Validate(idx, s, cfg, "")
	assert.Contains(t, result, blueprint.FieldID("m"))
}

func TestScore_BreakdownFollowsSectionOrder(t *testing.T) {
	bp := blueprint.Blueprint{
		FormID: "bp-order",
		Title:  "Order",
		Sections: []blueprint.Section{
			{SectionID: "first", Title: "1", Components: []blueprint.Component{
				{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
					{ID: "f1", QuestionText: "?", InputType: blueprint.InputText},
				}}},
			}},
			{SectionID: "second", Title: "2", Components: []blueprint.Component{
				{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
					{ID: "g1", QuestionText: "?", InputType: blueprint.InputText},
				}}},
			}},
		},
	}
	idx, err := blueprint.FromBlueprint(&bp)
	require.NoError(t, err)
	cfg := &Config{Sections: map[string]SectionRule{
		"second": {Weight: 60, Required: []blueprint.FieldID{"g1"}},
		"first":  {Weight: 40, Required: []blueprint.FieldID{"f1"}},
	}}

	_, breakdown := ScoreWithBreakdown(idx, nil, cfg)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "first", breakdown[0].SectionID)
	assert.Equal(t, "second", breakdown[1].SectionID)
}

func TestValidatorScorerAgreement(t *testing.T) {
	idx := oneSectionIndex(t)
	cfg := oneSectionConfig()
	s := snap(map[string]string{"A": "x", "B": "y"})

	result := Validate(idx, s, cfg, "s1")
	require.False(t, result.HasErrors())

	_, breakdown := ScoreWithBreakdown(idx, s, cfg)
	require.Len(t, breakdown, 1)
	assert.Equal(t, breakdown[0].RequiredAll, breakdown[0].RequiredMet,
		"zero validation errors implies required ratio 1.0")
}
