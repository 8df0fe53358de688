package assistant

import (
	"context"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
)

// SuggestionKind distinguishes actionable suggestions from passive tips.
type SuggestionKind string

const (
	KindSuggestion SuggestionKind = "suggestion"
	KindTip        SuggestionKind = "tip"
)

// Suggestion is one item the assistant pushes back to the renderer.
// FieldID is empty for global (sidebar) items; when set it matches a
// field that declares a smart prompt.
type Suggestion struct {
	FieldID blueprint.FieldID `json:"field_id,omitempty"`
	Text    string            `json:"text"`
	Kind    SuggestionKind    `json:"kind"`
}

// SectionContext is the (section, answers, category) triple handed to
// the assistant whenever the active section or its answers change.
type SectionContext struct {
	SectionID    string
	SectionTitle string
	CategoryHint string
	Questions    []blueprint.Question
	Answers      map[blueprint.FieldID]answers.Value
}

// NewSectionContext assembles the context for one section from the
// current answer snapshot. Only answers belonging to the section are
// included.
func NewSectionContext(idx *blueprint.Index, sectionID string, snapshot map[blueprint.FieldID]answers.Value) SectionContext {
	sc := SectionContext{
		SectionID:    sectionID,
		CategoryHint: idx.Blueprint().Category,
		Answers:      make(map[blueprint.FieldID]answers.Value),
	}
	sec, ok := idx.FindSection(sectionID)
	if !ok {
		return sc
	}
	sc.SectionTitle = sec.Title
	for _, comp := range sec.Components {
		if comp.Kind == blueprint.KindQuestionList && comp.Question != nil {
			sc.Questions = append(sc.Questions, comp.Question.Questions...)
		}
	}
	for _, id := range idx.SectionFieldIDs(sectionID) {
		if v, ok := snapshot[id]; ok {
			sc.Answers[id] = v
		}
	}
	return sc
}

// Suggester produces suggestions for a section context. Implementations
// must treat failure as "no suggestions": an error from Suggest never
// blocks form interaction.
type Suggester interface {
	Suggest(ctx context.Context, sc SectionContext) ([]Suggestion, error)
}
