package answers

import (
	"github.com/deeg9/rfqengine/internal/blueprint"
)

// Flatten converts a snapshot into the flat object a listing-creation
// API receives: one entry per answered field, plain JSON-friendly
// values. Unanswered fields are omitted entirely.
func Flatten(snapshot map[blueprint.FieldID]Value) map[string]any {
	out := make(map[string]any, len(snapshot))
	for id, v := range snapshot {
		if v == nil || !v.IsAnswered() {
			continue
		}
		switch a := v.(type) {
		case Text:
			out[string(id)] = a.Text
		case SingleChoice:
			out[string(id)] = a.Selected
		case MultiChoice:
			out[string(id)] = append([]string(nil), a.Selected...)
		case QuantityChoice:
			entries := make([]map[string]any, 0, len(a.Entries))
			for _, e := range a.Entries {
				if !e.Checked {
					continue
				}
				entry := map[string]any{"label": e.Label}
				if e.Quantity != nil {
					entry["quantity"] = *e.Quantity
				}
				entries = append(entries, entry)
			}
			out[string(id)] = entries
		}
	}
	return out
}
