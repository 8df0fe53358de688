package assistant

import (
	"context"

	"github.com/deeg9/rfqengine/internal/blueprint"
)

// DeterministicSuggestions derives tips from the section's declared
// smart prompts without any model call. Only unanswered questions get a
// tip; an answered field needs no nudge.
func DeterministicSuggestions(sc SectionContext) []Suggestion {
	var out []Suggestion
	for _, q := range sc.Questions {
		if len(q.SmartPrompts) == 0 {
			continue
		}
		if v, ok := sc.Answers[blueprint.FieldID(q.ID)]; ok && v != nil && v.IsAnswered() {
			continue
		}
		for _, p := range q.SmartPrompts {
			out = append(out, Suggestion{
				FieldID: blueprint.FieldID(q.ID),
				Text:    p.Label,
				Kind:    KindTip,
			})
		}
	}
	return out
}

// StaticSuggester serves the deterministic tips directly. Used when the
// LLM subsystem is disabled.
type StaticSuggester struct{}

func (StaticSuggester) Suggest(_ context.Context, sc SectionContext) ([]Suggestion, error) {
	return DeterministicSuggestions(sc), nil
}
