package answers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deeg9/rfqengine/internal/blueprint"
)

func TestFlatten(t *testing.T) {
	qty := 4
	snapshot := map[blueprint.FieldID]Value{
		"company_name": Text{Text: "Acme"},
		"frequency":    SingleChoice{Selected: "Monthly"},
		"modules":      MultiChoice{Selected: []string{"Payroll", "Benefits"}},
		"integrations": QuantityChoice{Entries: []QuantityEntry{
			{Label: "NetSuite", Checked: true, Quantity: &qty},
			{Label: "Workday", Checked: false},
		}},
		"blank":   Text{Text: "   "},
		"skipped": nil,
	}

	out := Flatten(snapshot)
	assert.Equal(t, "Acme", out["company_name"])
	assert.Equal(t, "Monthly", out["frequency"])
	assert.Equal(t, []string{"Payroll", "Benefits"}, out["modules"])
	assert.Equal(t, []map[string]any{{"label": "NetSuite", "quantity": 4}}, out["integrations"])
	assert.NotContains(t, out, "blank", "whitespace-only text is unanswered")
	assert.NotContains(t, out, "skipped")
	assert.Len(t, out, 4)
}
