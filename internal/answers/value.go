package answers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is the union of answer shapes. The concrete type must agree with
// the owning field's declared input type; the store is permissive about
// this (semantic checks belong to the validator), but decoding and the
// engine dispatch are exhaustive over these four variants.
type Value interface {
	// IsAnswered reports whether the value counts as "met" for a
	// required field: non-blank text, a selection, at least one chosen
	// option, or at least one checked entry.
	IsAnswered() bool

	kind() string
}

// Text holds free text and key/value table row answers.
type Text struct {
	Text string `json:"text"`
}

func (v Text) IsAnswered() bool { return strings.TrimSpace(v.Text) != "" }
func (v Text) kind() string     { return "text" }

// SingleChoice holds one selected option.
type SingleChoice struct {
	Selected string `json:"selected"`
}

func (v SingleChoice) IsAnswered() bool { return v.Selected != "" }
func (v SingleChoice) kind() string     { return "single_choice" }

// MultiChoice holds a set of selected options.
type MultiChoice struct {
	Selected []string `json:"selected"`
}

func (v MultiChoice) IsAnswered() bool { return len(v.Selected) > 0 }
func (v MultiChoice) kind() string     { return "multi_choice" }

// Contains reports whether option is in the selection set.
func (v MultiChoice) Contains(option string) bool {
	for _, s := range v.Selected {
		if s == option {
			return true
		}
	}
	return false
}

// QuantityEntry is one row of a multi-choice-with-quantity answer.
type QuantityEntry struct {
	Label    string `json:"label"`
	Checked  bool   `json:"checked"`
	Quantity *int   `json:"quantity,omitempty"`
}

// QuantityChoice holds checked entries with optional per-entry quantities.
type QuantityChoice struct {
	Entries []QuantityEntry `json:"entries"`
}

func (v QuantityChoice) IsAnswered() bool {
	for _, e := range v.Entries {
		if e.Checked {
			return true
		}
	}
	return false
}
func (v QuantityChoice) kind() string { return "quantity_choice" }

// Entry returns the entry for label, if present.
func (v QuantityChoice) Entry(label string) (QuantityEntry, bool) {
	for _, e := range v.Entries {
		if e.Label == label {
			return e, true
		}
	}
	return QuantityEntry{}, false
}

// envelope is the tagged wire form used for snapshots and drafts.
type envelope struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalValue encodes a value in its tagged wire form.
func MarshalValue(v Value) ([]byte, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s value: %w", v.kind(), err)
	}
	return json.Marshal(envelope{Kind: v.kind(), Value: inner})
}

// UnmarshalValue decodes a tagged wire form back into a value.
func UnmarshalValue(data []byte) (Value, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding answer envelope: %w", err)
	}

	switch env.Kind {
	case "text":
		var v Text
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("decoding text answer: %w", err)
		}
		return v, nil
	case "single_choice":
		var v SingleChoice
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("decoding single choice answer: %w", err)
		}
		return v, nil
	case "multi_choice":
		var v MultiChoice
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("decoding multi choice answer: %w", err)
		}
		return v, nil
	case "quantity_choice":
		var v QuantityChoice
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("decoding quantity choice answer: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown answer kind %q", env.Kind)
	}
}
