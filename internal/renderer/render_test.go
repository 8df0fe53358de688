package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/assistant"
	"github.com/deeg9/rfqengine/internal/blueprint"
)

func testSection() *blueprint.Section {
	return &blueprint.Section{
		SectionID: "s1",
		Title:     "Requirements",
		Components: []blueprint.Component{
			{Kind: blueprint.KindInstructionalText, Text: &blueprint.InstructionalText{Content: "Fill carefully."}},
			{Kind: blueprint.KindKeyValueTable, Table: &blueprint.KeyValueTable{Rows: []blueprint.KeyValueRow{
				{Label: "company", InputType: blueprint.InputText, Value: "Acme"},
				{Label: "email", InputType: blueprint.InputEmail},
			}}},
			{Kind: blueprint.KindQuestionList, Question: &blueprint.QuestionList{Questions: []blueprint.Question{
				{ID: "free", QuestionText: "Describe", InputType: blueprint.InputText,
					SmartPrompts: []blueprint.SmartPrompt{{Label: "Ideas", Prompt: "suggest ideas"}}},
				{ID: "pick", QuestionText: "Pick one", InputType: blueprint.InputSingleChoice, Options: []string{"a", "b"}},
				{ID: "many", QuestionText: "Pick many", InputType: blueprint.InputMultiChoice, Options: []string{"x", "y"}},
				{ID: "qty", QuestionText: "Quantities", InputType: blueprint.InputQuantityChoice, Options: []string{"p", "q"}},
			}}},
		},
	}
}

func TestRenderSection_PreservesDeclarationOrder(t *testing.T) {
	nodes := RenderSection(testSection(), nil)

	require.Len(t, nodes, 7)
	kinds := make([]NodeKind, len(nodes))
	for i, n := range nodes {
		kinds[i] = n.Kind
	}
	assert.Equal(t, []NodeKind{
		NodeNote, NodeInput, NodeInput,
		NodeTextQuestion, NodeSelect, NodeMultiSelect, NodeQuantityList,
	}, kinds)
}

func TestRenderSection_BindsCurrentValues(t *testing.T) {
	three := 3
	snapshot := map[blueprint.FieldID]answers.Value{
		"email": answers.Text{Text: "ops@acme.test"},
		"pick":  answers.SingleChoice{Selected: "b"},
		"many":  answers.MultiChoice{Selected: []string{"y"}},
		"qty": answers.QuantityChoice{Entries: []answers.QuantityEntry{
			{Label: "q", Checked: true, Quantity: &three},
		}},
	}

	nodes := RenderSection(testSection(), snapshot)

	assert.Equal(t, "Acme", nodes[1].Text, "pre-seeded row value")
	assert.Equal(t, "ops@acme.test", nodes[2].Text)
	assert.Equal(t, "b", nodes[4].Selected)
	assert.Equal(t, []string{"y"}, nodes[5].Choices)

	// Every declared option renders a quantity row, merged with the answer.
	require.Len(t, nodes[6].Entries, 2)
	assert.Equal(t, answers.QuantityEntry{Label: "p"}, nodes[6].Entries[0])
	assert.True(t, nodes[6].Entries[1].Checked)
	require.NotNil(t, nodes[6].Entries[1].Quantity)
	assert.Equal(t, 3, *nodes[6].Entries[1].Quantity)
}

func TestRenderSection_IsPure(t *testing.T) {
	sec := testSection()
	snapshot := map[blueprint.FieldID]answers.Value{"free": answers.Text{Text: "v1"}}

	first := RenderSection(sec, snapshot)
	second := RenderSection(sec, snapshot)
	assert.Equal(t, first, second)

	// Rendering with a changed snapshot does not disturb prior output.
	snapshot["free"] = answers.Text{Text: "v2"}
	third := RenderSection(sec, snapshot)
	assert.Equal(t, "v1", first[3].Text)
	assert.Equal(t, "v2", third[3].Text)
}

func TestWithErrors_AnnotatesMatchingFields(t *testing.T) {
	nodes := RenderSection(testSection(), nil)
	annotated := WithErrors(nodes, map[blueprint.FieldID]string{
		"email": "this field is required",
	})

	assert.Equal(t, "this field is required", annotated[2].Error)
	assert.Empty(t, annotated[1].Error)
	assert.Empty(t, nodes[2].Error, "input slice is not mutated")
}

func TestAttachSuggestions_SplitsFieldAndGlobal(t *testing.T) {
	nodes := RenderSection(testSection(), nil)
	items := []assistant.Suggestion{
		{FieldID: "free", Text: "Mention integrations", Kind: assistant.KindSuggestion},
		{Text: "Complete all sections for better proposals", Kind: assistant.KindTip},
		{FieldID: "not_rendered", Text: "stale", Kind: assistant.KindSuggestion},
	}

	annotated, global := AttachSuggestions(nodes, items)

	require.Len(t, annotated[3].Attached, 1)
	assert.Equal(t, "Mention integrations", annotated[3].Attached[0].Text)

	// The global tip plus the suggestion whose field is absent here.
	assert.Len(t, global, 2)
}

func TestRenderSection_SmartPromptsCarriedOnNode(t *testing.T) {
	nodes := RenderSection(testSection(), nil)
	require.Len(t, nodes[3].Prompts, 1)
	assert.Equal(t, "Ideas", nodes[3].Prompts[0].Label)
}
