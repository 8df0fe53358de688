package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/engine"
)

func threeStepFixture(t *testing.T) (*blueprint.Index, *answers.Store, *engine.Config) {
	t.Helper()
	bp := blueprint.Blueprint{
		FormID: "bp-wizard",
		Title:  "Wizard",
		Sections: []blueprint.Section{
			{SectionID: "s1", Title: "One", Components: []blueprint.Component{
				{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
					{ID: "a", QuestionText: "A?", InputType: blueprint.InputText},
				}}},
			}},
			{SectionID: "s2", Title: "Two", Components: []blueprint.Component{
				{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
					{ID: "b", QuestionText: "B?", InputType: blueprint.InputText},
				}}},
			}},
			{SectionID: "s3", Title: "Three", Components: []blueprint.Component{
				{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
					{ID: "c", QuestionText: "C?", InputType: blueprint.InputText},
				}}},
			}},
		},
	}
	idx, err := blueprint.FromBlueprint(&bp)
	require.NoError(t, err)
	store := answers.NewStore(idx)
	cfg := &engine.Config{Sections: map[string]engine.SectionRule{
		"s1": {Weight: 40, Required: []blueprint.FieldID{"a"}},
		"s2": {Weight: 30, Required: []blueprint.FieldID{"b"}},
		"s3": {Weight: 30, Required: []blueprint.FieldID{"c"}},
	}}
	return idx, store, cfg
}

func newTestMachine(t *testing.T) (*Machine, *answers.Store) {
	t.Helper()
	idx, store, cfg := threeStepFixture(t)
	m, err := New(idx, store, cfg)
	require.NoError(t, err)
	return m, store
}

func TestNew_InitialState(t *testing.T) {
	m, _ := newTestMachine(t)
	assert.Equal(t, 0, m.CurrentStep())
	assert.Empty(t, m.CompletedSteps())
	assert.Equal(t, 3, m.StepCount())
	assert.Equal(t, "s1", m.CurrentSection().SectionID)
}

func TestNew_RejectsMismatchedConfig(t *testing.T) {
	idx, store, _ := threeStepFixture(t)
	bad := &engine.Config{Sections: map[string]engine.SectionRule{
		"missing": {Weight: 100},
	}}
	_, err := New(idx, store, bad)
	require.Error(t, err)
	assert.ErrorContains(t, err, "does not fit blueprint")
}

func TestGoNext_BlockedOnUnmetRequired(t *testing.T) {
	m, _ := newTestMachine(t)

	advanced, result := m.GoNext()
	assert.False(t, advanced)
	assert.Contains(t, result, blueprint.FieldID("a"))
	assert.Equal(t, 0, m.CurrentStep())
	assert.False(t, m.IsCompleted(0))
}

func TestGoNext_AdvancesWhenSectionValid(t *testing.T) {
	m, store := newTestMachine(t)
	require.NoError(t, store.Set("a", answers.Text{Text: "done"}))

	advanced, result := m.GoNext()
	assert.True(t, advanced)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 1, m.CurrentStep())
	assert.True(t, m.IsCompleted(0))
}

func TestGoNext_OnlyGatesCurrentSection(t *testing.T) {
	m, store := newTestMachine(t)
	// Later sections are untouched; gating only inspects the active one.
	require.NoError(t, store.Set("a", answers.Text{Text: "done"}))

	advanced, _ := m.GoNext()
	assert.True(t, advanced)
}

func TestGoNext_ClampedAtLastStep(t *testing.T) {
	m, store := newTestMachine(t)
	for _, id := range []blueprint.FieldID{"a", "b", "c"} {
		require.NoError(t, store.Set(id, answers.Text{Text: "v"}))
	}
	m.GoNext()
	m.GoNext()
	assert.Equal(t, 2, m.CurrentStep())

	// Last step: validation still runs and completion is recorded, but
	// the index stays put. Submission is not a wizard transition.
	advanced, result := m.GoNext()
	assert.False(t, advanced)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 2, m.CurrentStep())
	assert.True(t, m.IsCompleted(2))
}

func TestGoPrevious_AlwaysAllowedAndClamped(t *testing.T) {
	m, store := newTestMachine(t)
	m.GoPrevious()
	assert.Equal(t, 0, m.CurrentStep())

	require.NoError(t, store.Set("a", answers.Text{Text: "v"}))
	m.GoNext()
	m.GoPrevious()
	assert.Equal(t, 0, m.CurrentStep())
	assert.True(t, m.IsCompleted(0), "going back does not un-mark completion")
}

func TestJumpTo_RejectsSkippingAhead(t *testing.T) {
	m, _ := newTestMachine(t)

	err := m.JumpTo(2)
	assert.ErrorIs(t, err, ErrJumpNotAllowed)
	assert.Equal(t, 0, m.CurrentStep(), "state unchanged on rejected jump")
}

func TestJumpTo_AllowsCompletedAndBackward(t *testing.T) {
	m, store := newTestMachine(t)
	require.NoError(t, store.Set("a", answers.Text{Text: "v"}))
	require.NoError(t, store.Set("b", answers.Text{Text: "v"}))
	m.GoNext()
	m.GoNext() // now at step 2, steps 0 and 1 completed

	require.NoError(t, m.JumpTo(0))
	assert.Equal(t, 0, m.CurrentStep())

	// Step 1 is completed, so jumping forward to it is fine.
	require.NoError(t, m.JumpTo(1))
	assert.Equal(t, 1, m.CurrentStep())

	// Step 2 is not completed but was reached before; from step 1 it is
	// ahead of current and not completed, so it is rejected.
	err := m.JumpTo(2)
	assert.ErrorIs(t, err, ErrJumpNotAllowed)
}

func TestJumpTo_OutOfRange(t *testing.T) {
	m, _ := newTestMachine(t)
	assert.Error(t, m.JumpTo(-1))
	assert.Error(t, m.JumpTo(3))
}

func TestIsReadyToSubmit(t *testing.T) {
	m, store := newTestMachine(t)
	assert.False(t, m.IsReadyToSubmit())

	for _, id := range []blueprint.FieldID{"a", "b", "c"} {
		require.NoError(t, store.Set(id, answers.Text{Text: "v"}))
	}
	assert.False(t, m.IsReadyToSubmit(), "must reach the last step first")

	m.GoNext()
	m.GoNext()
	assert.True(t, m.IsReadyToSubmit())

	// Clearing a required answer anywhere flips readiness off.
	store.Delete("a")
	assert.False(t, m.IsReadyToSubmit())
}

func TestScore_ReflectsLatestAnswers(t *testing.T) {
	m, store := newTestMachine(t)
	assert.Equal(t, 0, m.Score().Value)

	require.NoError(t, store.Set("a", answers.Text{Text: "v"}))
	assert.Equal(t, 40, m.Score().Value)

	require.NoError(t, store.Set("b", answers.Text{Text: "v"}))
	require.NoError(t, store.Set("c", answers.Text{Text: "v"}))
	got := m.Score()
	assert.Equal(t, 100, got.Value)
	assert.Equal(t, engine.BandExcellent, got.Band)
}
