// Package renderer turns one blueprint section plus the current answer
// snapshot into a flat, UI-agnostic description. The description is a
// pure function of its inputs: any host (the bundled TUI, a web layer,
// a test) re-renders it wholesale on every change and binds edits back
// through the answer store.
package renderer

import (
	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/assistant"
	"github.com/deeg9/rfqengine/internal/blueprint"
)

// NodeKind tags the presentation each node calls for.
type NodeKind string

const (
	NodeNote         NodeKind = "note"          // instructional text
	NodeInput        NodeKind = "input"         // key/value table row
	NodeTextQuestion NodeKind = "text_question" // free text question
	NodeSelect       NodeKind = "select"        // single choice
	NodeMultiSelect  NodeKind = "multi_select"  // multi choice
	NodeQuantityList NodeKind = "quantity_list" // multi choice with quantity
)

// Node is one renderable unit, carrying the field's declaration and its
// current value. Exactly the value slot matching Kind is meaningful.
type Node struct {
	Kind      NodeKind
	FieldID   blueprint.FieldID // empty for notes
	Title     string
	Help      string
	InputType blueprint.InputType
	Options   []string

	Text     string                   // NodeNote content, NodeInput/NodeTextQuestion value
	Selected string                   // NodeSelect value
	Choices  []string                 // NodeMultiSelect value
	Entries  []answers.QuantityEntry  // NodeQuantityList value
	Error    string                   // current validation message, if any
	Prompts  []blueprint.SmartPrompt  // smart prompts declared by the field
	Attached []assistant.Suggestion   // per-field suggestions
}

// RenderSection walks the section's components in declaration order and
// produces one node per instructional text, table row, and question.
// Component order is rendering order; there is no alternate sort.
func RenderSection(sec *blueprint.Section, snapshot map[blueprint.FieldID]answers.Value) []Node {
	var nodes []Node
	for ci := range sec.Components {
		comp := &sec.Components[ci]
		switch comp.Kind {
		case blueprint.KindInstructionalText:
			if comp.Text == nil {
				continue
			}
			nodes = append(nodes, Node{Kind: NodeNote, Text: comp.Text.Content})

		case blueprint.KindKeyValueTable:
			if comp.Table == nil {
				continue
			}
			for _, row := range comp.Table.Rows {
				nodes = append(nodes, renderRow(row, snapshot))
			}

		case blueprint.KindQuestionList:
			if comp.Question == nil {
				continue
			}
			for qi := range comp.Question.Questions {
				nodes = append(nodes, renderQuestion(&comp.Question.Questions[qi], snapshot))
			}
		}
	}
	return nodes
}

func renderRow(row blueprint.KeyValueRow, snapshot map[blueprint.FieldID]answers.Value) Node {
	n := Node{
		Kind:      NodeInput,
		FieldID:   blueprint.FieldID(row.Label),
		Title:     row.Label,
		InputType: row.InputType,
		Text:      row.Value, // pre-seeded default
	}
	if v, ok := snapshot[n.FieldID]; ok {
		if t, ok := v.(answers.Text); ok {
			n.Text = t.Text
		}
	}
	return n
}

func renderQuestion(q *blueprint.Question, snapshot map[blueprint.FieldID]answers.Value) Node {
	n := Node{
		FieldID:   blueprint.FieldID(q.ID),
		Title:     q.QuestionText,
		Help:      q.HelpText,
		InputType: q.InputType,
		Options:   q.Options,
		Prompts:   q.SmartPrompts,
	}
	current := snapshot[n.FieldID]

	switch q.InputType {
	case blueprint.InputSingleChoice:
		n.Kind = NodeSelect
		if v, ok := current.(answers.SingleChoice); ok {
			n.Selected = v.Selected
		}
	case blueprint.InputMultiChoice:
		n.Kind = NodeMultiSelect
		if v, ok := current.(answers.MultiChoice); ok {
			n.Choices = v.Selected
		}
	case blueprint.InputQuantityChoice:
		n.Kind = NodeQuantityList
		n.Entries = quantityEntries(q, current)
	default:
		n.Kind = NodeTextQuestion
		if v, ok := current.(answers.Text); ok {
			n.Text = v.Text
		}
	}
	return n
}

// quantityEntries merges the declared option list with the stored
// answer so every option renders a row, checked or not.
func quantityEntries(q *blueprint.Question, current answers.Value) []answers.QuantityEntry {
	stored, _ := current.(answers.QuantityChoice)
	entries := make([]answers.QuantityEntry, 0, len(q.Options))
	for _, opt := range q.Options {
		if e, ok := stored.Entry(opt); ok {
			entries = append(entries, e)
			continue
		}
		entries = append(entries, answers.QuantityEntry{Label: opt})
	}
	return entries
}

// WithErrors returns a copy of nodes annotated with validation messages
// looked up by field id.
func WithErrors(nodes []Node, errs map[blueprint.FieldID]string) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		if out[i].FieldID == "" {
			continue
		}
		out[i].Error = errs[out[i].FieldID]
	}
	return out
}

// AttachSuggestions distributes assistant output across nodes. Items
// with a field id land on the matching node; the rest are returned as
// global items for the host's sidebar.
func AttachSuggestions(nodes []Node, items []assistant.Suggestion) ([]Node, []assistant.Suggestion) {
	out := make([]Node, len(nodes))
	copy(out, nodes)

	byField := make(map[blueprint.FieldID][]assistant.Suggestion)
	var global []assistant.Suggestion
	for _, item := range items {
		if item.FieldID == "" {
			global = append(global, item)
			continue
		}
		byField[item.FieldID] = append(byField[item.FieldID], item)
	}

	for i := range out {
		if attached, ok := byField[out[i].FieldID]; ok && out[i].FieldID != "" {
			out[i].Attached = attached
			delete(byField, out[i].FieldID)
		}
	}
	// Suggestions for fields not rendered here degrade to global items
	// rather than disappearing.
	for _, rest := range byField {
		global = append(global, rest...)
	}
	return out, global
}
