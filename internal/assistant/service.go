package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/llm"
)

// llmSuggester produces suggestions with an LLM, falling back to the
// deterministic smart-prompt tips when the model is unavailable or its
// output cannot be parsed. It never returns an error: assistant failure
// must not block form interaction.
type llmSuggester struct {
	client   llm.Client
	observer llm.Observer
}

// NewLLMSuggester creates a Suggester backed by an LLM client.
func NewLLMSuggester(client llm.Client, observer llm.Observer) Suggester {
	return &llmSuggester{client: client, observer: observer}
}

// suggestResponse is the JSON structure expected from the LLM.
type suggestResponse struct {
	Items []suggestItem `json:"items"`
}

type suggestItem struct {
	FieldID string `json:"field_id,omitempty"`
	Text    string `json:"text"`
	Kind    string `json:"kind"`
}

func (s *llmSuggester) Suggest(ctx context.Context, sc SectionContext) ([]Suggestion, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: suggestSystemPrompt,
		UserPrompt:   buildSuggestPrompt(sc),
	})
	if err != nil {
		// Cancellation propagates so stale requests die quietly; any
		// other failure degrades to the deterministic tips.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return DeterministicSuggestions(sc), nil
	}

	parsed, err := llm.ExtractJSON[suggestResponse](resp.Text, validateSuggestResponse)
	if err != nil {
		return DeterministicSuggestions(sc), nil
	}

	valid := validFieldIDs(sc)
	var out []Suggestion
	for _, item := range parsed.Items {
		kind := SuggestionKind(item.Kind)
		if kind != KindSuggestion && kind != KindTip {
			kind = KindTip
		}
		id := blueprint.FieldID(item.FieldID)
		// A hallucinated field id degrades the item to a global tip
		// rather than attaching it to nothing.
		if id != "" && !valid[id] {
			id = ""
		}
		out = append(out, Suggestion{FieldID: id, Text: item.Text, Kind: kind})
	}
	return out, nil
}

func validateSuggestResponse(resp suggestResponse) error {
	if len(resp.Items) == 0 {
		return fmt.Errorf("items field is required")
	}
	for i, item := range resp.Items {
		if strings.TrimSpace(item.Text) == "" {
			return fmt.Errorf("items[%d]: text is required", i)
		}
	}
	return nil
}

func validFieldIDs(sc SectionContext) map[blueprint.FieldID]bool {
	valid := make(map[blueprint.FieldID]bool, len(sc.Questions))
	for _, q := range sc.Questions {
		valid[blueprint.FieldID(q.ID)] = true
	}
	return valid
}

const suggestSystemPrompt = `You help business buyers write better software RFQs.
Given the current form section, its questions, and the buyer's answers so far,
respond with JSON only:
{"items":[{"field_id":"<question id or omit>","text":"<one concrete suggestion>","kind":"suggestion|tip"}]}
Keep each text under 200 characters. Only use field ids listed in the prompt.`

func buildSuggestPrompt(sc SectionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\nSection: %s\n\nQuestions:\n", sc.CategoryHint, sc.SectionTitle)
	for _, q := range sc.Questions {
		fmt.Fprintf(&b, "- [%s] %s", q.ID, q.QuestionText)
		if len(q.Options) > 0 {
			fmt.Fprintf(&b, " (options: %s)", strings.Join(q.Options, ", "))
		}
		b.WriteString("\n")
		for _, p := range q.SmartPrompts {
			fmt.Fprintf(&b, "  hint request: %s\n", p.Prompt)
		}
	}

	b.WriteString("\nAnswers so far:\n")
	ids := make([]string, 0, len(sc.Answers))
	for id := range sc.Answers {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "- %s: %s\n", id, describeAnswer(sc.Answers[blueprint.FieldID(id)]))
	}
	if len(ids) == 0 {
		b.WriteString("(none yet)\n")
	}
	return b.String()
}

func describeAnswer(v answers.Value) string {
	switch a := v.(type) {
	case answers.Text:
		return a.Text
	case answers.SingleChoice:
		return a.Selected
	case answers.MultiChoice:
		return strings.Join(a.Selected, ", ")
	case answers.QuantityChoice:
		var parts []string
		for _, e := range a.Entries {
			if !e.Checked {
				continue
			}
			if e.Quantity != nil {
				parts = append(parts, fmt.Sprintf("%s x%d", e.Label, *e.Quantity))
			} else {
				parts = append(parts, e.Label)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
