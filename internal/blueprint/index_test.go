package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_FieldLookup(t *testing.T) {
	bp := validTestBlueprint()
	idx := NewIndex(&bp)

	ref, ok := idx.FindField("email")
	require.True(t, ok)
	assert.Equal(t, "s1", ref.SectionID)
	require.NotNil(t, ref.Row)
	assert.Equal(t, InputEmail, ref.InputType())

	ref, ok = idx.FindField("q1")
	require.True(t, ok)
	require.NotNil(t, ref.Question)
	assert.Equal(t, InputSingleChoice, ref.InputType())

	_, ok = idx.FindField("nope")
	assert.False(t, ok)
}

func TestIndex_AllFieldIDsInDeclarationOrder(t *testing.T) {
	bp := validTestBlueprint()
	idx := NewIndex(&bp)

	assert.Equal(t, []FieldID{"name", "email", "q1", "q2"}, idx.AllFieldIDs())
	assert.Equal(t, []FieldID{"name", "email", "q1", "q2"}, idx.SectionFieldIDs("s1"))
}

func TestIndex_FindQuestionDoesNotMatchRows(t *testing.T) {
	bp := validTestBlueprint()
	idx := NewIndex(&bp)

	_, ok := idx.FindQuestion("name") // table row, not a question
	assert.False(t, ok)

	q, ok := idx.FindQuestion("q2")
	require.True(t, ok)
	assert.Equal(t, "Describe", q.QuestionText)
}

func TestIndex_FindSection(t *testing.T) {
	bp := validTestBlueprint()
	idx := NewIndex(&bp)

	sec, ok := idx.FindSection("s1")
	require.True(t, ok)
	assert.Equal(t, "First", sec.Title)

	_, ok = idx.FindSection("s9")
	assert.False(t, ok)
}
