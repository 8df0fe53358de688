package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/renderer"
)

func hrIndex(t *testing.T) *blueprint.Index {
	t.Helper()
	bp := blueprint.SeedBlueprints()[0]
	idx, err := blueprint.FromBlueprint(&bp)
	require.NoError(t, err)
	return idx
}

func TestBuildSectionForm_BindsEveryField(t *testing.T) {
	idx := hrIndex(t)
	sec, ok := idx.FindSection("requirements")
	require.True(t, ok)

	nodes := renderer.RenderSection(sec, nil)
	form, bindings := buildSectionForm(nodes)
	require.NotNil(t, form)

	var fieldNodes int
	for _, n := range nodes {
		if n.Kind != renderer.NodeNote {
			fieldNodes++
		}
	}
	assert.Len(t, bindings, fieldNodes, "one binding per non-note node")
}

func TestCommitBindings_WritesEachValueKind(t *testing.T) {
	idx := hrIndex(t)
	store := answers.NewStore(idx)

	qty := 3
	bindings := []*fieldBinding{
		{id: "current_pain", kind: renderer.NodeTextQuestion, text: "too many spreadsheets"},
		{id: "payroll_frequency", kind: renderer.NodeSelect, selected: "Monthly"},
		{id: "modules_needed", kind: renderer.NodeMultiSelect, multi: []string{"Payroll"}},
		{id: "integrations", kind: renderer.NodeQuantityList,
			options: []string{"QuickBooks", "NetSuite", "Workday", "Custom ERP"},
			multi:   []string{"NetSuite"},
			qtySpec: "NetSuite=3"},
	}
	require.NoError(t, commitBindings(store, bindings))

	v, _ := store.Get("current_pain")
	assert.Equal(t, answers.Text{Text: "too many spreadsheets"}, v)

	v, _ = store.Get("payroll_frequency")
	assert.Equal(t, answers.SingleChoice{Selected: "Monthly"}, v)

	v, _ = store.Get("modules_needed")
	assert.Equal(t, answers.MultiChoice{Selected: []string{"Payroll"}}, v)

	v, _ = store.Get("integrations")
	qc, ok := v.(answers.QuantityChoice)
	require.True(t, ok)
	require.Len(t, qc.Entries, 1)
	assert.Equal(t, "NetSuite", qc.Entries[0].Label)
	require.NotNil(t, qc.Entries[0].Quantity)
	assert.Equal(t, qty, *qc.Entries[0].Quantity)
}

func TestCommitBindings_ClearedChoicesDelete(t *testing.T) {
	idx := hrIndex(t)
	store := answers.NewStore(idx)
	require.NoError(t, store.Set("payroll_frequency", answers.SingleChoice{Selected: "Weekly"}))

	bindings := []*fieldBinding{
		{id: "payroll_frequency", kind: renderer.NodeSelect, selected: ""},
	}
	require.NoError(t, commitBindings(store, bindings))

	_, ok := store.Get("payroll_frequency")
	assert.False(t, ok, "cleared select reads as unanswered")
}

func TestParseQuantitySpec(t *testing.T) {
	known := map[string]bool{"QuickBooks": true, "Custom ERP": true}

	counts, err := parseQuantitySpec("QuickBooks=2, Custom ERP=5", known)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"QuickBooks": 2, "Custom ERP": 5}, counts)

	counts, err = parseQuantitySpec("  ", known)
	require.NoError(t, err)
	assert.Empty(t, counts)

	_, err = parseQuantitySpec("QuickBooks=-1", known)
	assert.Error(t, err)

	_, err = parseQuantitySpec("Mystery=2", known)
	assert.Error(t, err)

	_, err = parseQuantitySpec("QuickBooks", known)
	assert.Error(t, err)
}

func TestInputValidator(t *testing.T) {
	assert.NoError(t, inputValidator(blueprint.InputEmail)(""))
	assert.NoError(t, inputValidator(blueprint.InputEmail)("buyer@example.com"))
	assert.Error(t, inputValidator(blueprint.InputEmail)("not-an-email"))

	assert.NoError(t, inputValidator(blueprint.InputNumber)("120"))
	assert.Error(t, inputValidator(blueprint.InputNumber)("a few"))

	assert.NoError(t, inputValidator(blueprint.InputDate)("2026-09-01"))
	assert.Error(t, inputValidator(blueprint.InputDate)("09/01/2026"))
}
