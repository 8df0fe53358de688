package blueprint

// FieldID is the key space for answer binding. A FieldID is either a
// Question id or a KeyValueRow label; uniqueness across the whole
// blueprint is enforced at load time by Validate.
type FieldID string

// InputType tags how a question or table row collects its answer.
type InputType string

const (
	InputText           InputType = "text"
	InputEmail          InputType = "email"
	InputNumber         InputType = "number"
	InputDate           InputType = "date"
	InputSingleChoice   InputType = "single_choice"
	InputMultiChoice    InputType = "multi_choice"
	InputQuantityChoice InputType = "multi_choice_quantity"
)

// ValidRowInputTypes is the canonical set of input types a KeyValueRow
// may declare. Choice inputs belong to questions, not table rows.
var ValidRowInputTypes = map[InputType]bool{
	InputText: true, InputEmail: true, InputNumber: true, InputDate: true,
}

// ValidQuestionInputTypes is the canonical set of input types a Question
// may declare.
var ValidQuestionInputTypes = map[InputType]bool{
	InputText: true, InputSingleChoice: true,
	InputMultiChoice: true, InputQuantityChoice: true,
}

// IsChoice reports whether the input type selects from a declared option set.
func (t InputType) IsChoice() bool {
	return t == InputSingleChoice || t == InputMultiChoice || t == InputQuantityChoice
}

// Blueprint is the declarative description of one questionnaire. It is
// immutable after load; all engine layers treat it as read-only.
type Blueprint struct {
	FormID   string    `json:"form_id"`
	Title    string    `json:"title"`
	Category string    `json:"category,omitempty"`
	Sections []Section `json:"sections"`
}

// Section is an ordered group of components and one wizard step.
type Section struct {
	SectionID  string      `json:"section_id"`
	Title      string      `json:"title"`
	Components []Component `json:"components"`
}

// ComponentKind discriminates the component union.
type ComponentKind string

const (
	KindInstructionalText ComponentKind = "instructional_text"
	KindKeyValueTable     ComponentKind = "key_value_table"
	KindQuestionList      ComponentKind = "question_list"
)

// Component is the tagged union of renderable units inside a section.
// Exactly one of the variant pointers matching Kind is non-nil.
type Component struct {
	Kind     ComponentKind      `json:"kind"`
	Text     *InstructionalText `json:"text,omitempty"`
	Table    *KeyValueTable     `json:"table,omitempty"`
	Question *QuestionList      `json:"questions,omitempty"`
}

// InstructionalText is static copy, never bound to answers.
type InstructionalText struct {
	Content string `json:"content"`
}

// KeyValueTable collects short facts as labeled rows. Rows are keyed by
// label for answer binding, so labels must be unique within a table.
type KeyValueTable struct {
	Rows []KeyValueRow `json:"rows"`
}

type KeyValueRow struct {
	Label     string    `json:"label"`
	InputType InputType `json:"input_type"`
	Value     string    `json:"value,omitempty"` // pre-seeded answer
}

// QuestionList is an ordered set of questions.
type QuestionList struct {
	Questions []Question `json:"items"`
}

type Question struct {
	ID           string        `json:"id"`
	QuestionText string        `json:"question_text"`
	HelpText     string        `json:"help_text,omitempty"`
	InputType    InputType     `json:"input_type"`
	Options      []string      `json:"options,omitempty"`
	SmartPrompts []SmartPrompt `json:"smart_prompts,omitempty"`
}

// SmartPrompt is a question-attached hint forwarded to the assistant.
type SmartPrompt struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// HasOption reports whether v is one of the question's declared options.
func (q *Question) HasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}

// FieldIDs returns the answer keys a component declares, in declaration
// order. InstructionalText declares none.
func (c *Component) FieldIDs() []FieldID {
	switch c.Kind {
	case KindKeyValueTable:
		if c.Table == nil {
			return nil
		}
		ids := make([]FieldID, 0, len(c.Table.Rows))
		for _, r := range c.Table.Rows {
			ids = append(ids, FieldID(r.Label))
		}
		return ids
	case KindQuestionList:
		if c.Question == nil {
			return nil
		}
		ids := make([]FieldID, 0, len(c.Question.Questions))
		for _, q := range c.Question.Questions {
			ids = append(ids, FieldID(q.ID))
		}
		return ids
	}
	return nil
}
