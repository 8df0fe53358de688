package engine

import (
	"fmt"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
)

// Result maps field id to a human-readable error message for fields
// currently failing a required or format rule. Consumers look up by id;
// iteration order carries no meaning.
type Result map[blueprint.FieldID]string

// HasErrors reports whether any field failed.
func (r Result) HasErrors() bool { return len(r) > 0 }

// Validate determines which required fields are unmet and which answers
// are malformed. scope restricts checking to one section id; pass "" to
// validate the whole form. Validation never fails: every problem,
// including answers that reference no blueprint field ("orphaned"), is
// reported as data.
func Validate(idx *blueprint.Index, snapshot map[blueprint.FieldID]answers.Value, cfg *Config, scope string) Result {
	result := Result{}

	for sectionID, rule := range cfg.Sections {
		if scope != "" && sectionID != scope {
			continue
		}
		for _, id := range rule.Required {
			ref, ok := idx.FindField(id)
			if !ok {
				result[id] = "orphaned field: not declared by this blueprint"
				continue
			}
			if msg := checkRequired(ref, snapshot[id]); msg != "" {
				result[id] = msg
			}
		}
		// Optional fields are never "unmet", but a malformed answer to
		// one is still a format error.
		for _, id := range rule.Optional {
			ref, ok := idx.FindField(id)
			if !ok {
				result[id] = "orphaned field: not declared by this blueprint"
				continue
			}
			v, answered := snapshot[id]
			if !answered {
				continue
			}
			if msg := checkFormat(ref, v); msg != "" {
				result[id] = msg
			}
		}
	}

	// Answers with no home in the blueprint. Only meaningful for
	// permissive stores; strict stores reject these at Set time.
	for id := range snapshot {
		if scope != "" {
			if ref, ok := idx.FindField(id); ok && ref.SectionID != scope {
				continue
			}
		}
		if _, ok := idx.FindField(id); !ok {
			result[id] = "orphaned field: not declared by this blueprint"
		}
	}

	return result
}

func checkRequired(ref blueprint.FieldRef, v answers.Value) string {
	if v == nil {
		return requiredMessage(ref)
	}
	if msg := checkFormat(ref, v); msg != "" {
		return msg
	}
	if !v.IsAnswered() {
		return requiredMessage(ref)
	}
	return ""
}

func requiredMessage(ref blueprint.FieldRef) string {
	switch ref.InputType() {
	case blueprint.InputSingleChoice:
		return "select an option"
	case blueprint.InputMultiChoice:
		return "select at least one option"
	case blueprint.InputQuantityChoice:
		return "check at least one entry"
	default:
		return "this field is required"
	}
}

// checkFormat verifies the answer's shape and, for choice inputs, that
// selections come from the declared option set.
func checkFormat(ref blueprint.FieldRef, v answers.Value) string {
	switch ref.InputType() {
	case blueprint.InputText, blueprint.InputEmail, blueprint.InputNumber, blueprint.InputDate:
		if _, ok := v.(answers.Text); !ok {
			return fmt.Sprintf("expected a text answer, got %T", v)
		}
	case blueprint.InputSingleChoice:
		sc, ok := v.(answers.SingleChoice)
		if !ok {
			return fmt.Sprintf("expected a single choice answer, got %T", v)
		}
		if sc.Selected != "" && ref.Question != nil && !ref.Question.HasOption(sc.Selected) {
			return fmt.Sprintf("%q is not one of the available options", sc.Selected)
		}
	case blueprint.InputMultiChoice:
		mc, ok := v.(answers.MultiChoice)
		if !ok {
			return fmt.Sprintf("expected a multi choice answer, got %T", v)
		}
		if ref.Question != nil {
			for _, sel := range mc.Selected {
				if !ref.Question.HasOption(sel) {
					return fmt.Sprintf("%q is not one of the available options", sel)
				}
			}
		}
	case blueprint.InputQuantityChoice:
		qc, ok := v.(answers.QuantityChoice)
		if !ok {
			return fmt.Sprintf("expected a quantity choice answer, got %T", v)
		}
		for _, e := range qc.Entries {
			if e.Quantity != nil && *e.Quantity < 0 {
				return fmt.Sprintf("quantity for %q must not be negative", e.Label)
			}
			if ref.Question != nil && !ref.Question.HasOption(e.Label) {
				return fmt.Sprintf("%q is not one of the available options", e.Label)
			}
		}
	}
	return ""
}
