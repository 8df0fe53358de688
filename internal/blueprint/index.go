package blueprint

// FieldRef locates one answer-bound field inside a blueprint.
type FieldRef struct {
	SectionID string
	Section   *Section
	Row       *KeyValueRow // non-nil for table rows
	Question  *Question    // non-nil for questions
}

// InputType returns the declared input type of the referenced field.
func (r FieldRef) InputType() InputType {
	if r.Row != nil {
		return r.Row.InputType
	}
	if r.Question != nil {
		return r.Question.InputType
	}
	return ""
}

// Index is the id→location map built once per blueprint so that the
// validator and scorer can resolve fields in O(1) on every change.
type Index struct {
	bp       *Blueprint
	sections map[string]*Section
	fields   map[FieldID]FieldRef
	order    []FieldID // declaration order across the whole blueprint
}

// NewIndex builds the lookup index. The blueprint should already have
// passed Validate; duplicate ids resolve to the first declaration.
func NewIndex(bp *Blueprint) *Index {
	idx := &Index{
		bp:       bp,
		sections: make(map[string]*Section, len(bp.Sections)),
		fields:   make(map[FieldID]FieldRef),
	}
	for si := range bp.Sections {
		sec := &bp.Sections[si]
		if _, ok := idx.sections[sec.SectionID]; !ok {
			idx.sections[sec.SectionID] = sec
		}
		for ci := range sec.Components {
			comp := &sec.Components[ci]
			switch comp.Kind {
			case KindKeyValueTable:
				if comp.Table == nil {
					continue
				}
				for ri := range comp.Table.Rows {
					row := &comp.Table.Rows[ri]
					idx.addField(FieldID(row.Label), FieldRef{
						SectionID: sec.SectionID, Section: sec, Row: row,
					})
				}
			case KindQuestionList:
				if comp.Question == nil {
					continue
				}
				for qi := range comp.Question.Questions {
					q := &comp.Question.Questions[qi]
					idx.addField(FieldID(q.ID), FieldRef{
						SectionID: sec.SectionID, Section: sec, Question: q,
					})
				}
			}
		}
	}
	return idx
}

func (idx *Index) addField(id FieldID, ref FieldRef) {
	if _, ok := idx.fields[id]; ok {
		return
	}
	idx.fields[id] = ref
	idx.order = append(idx.order, id)
}

// Blueprint returns the indexed blueprint.
func (idx *Index) Blueprint() *Blueprint { return idx.bp }

// FindSection resolves a section by id.
func (idx *Index) FindSection(sectionID string) (*Section, bool) {
	s, ok := idx.sections[sectionID]
	return s, ok
}

// FindField resolves a field id to its declaration.
func (idx *Index) FindField(id FieldID) (FieldRef, bool) {
	ref, ok := idx.fields[id]
	return ref, ok
}

// FindQuestion resolves a question by id, scanning nothing: questions
// were indexed at build time.
func (idx *Index) FindQuestion(questionID string) (*Question, bool) {
	ref, ok := idx.fields[FieldID(questionID)]
	if !ok || ref.Question == nil {
		return nil, false
	}
	return ref.Question, true
}

// AllFieldIDs returns every answer-bound field id in declaration order.
func (idx *Index) AllFieldIDs() []FieldID {
	out := make([]FieldID, len(idx.order))
	copy(out, idx.order)
	return out
}

// SectionFieldIDs returns the field ids declared by one section, in order.
func (idx *Index) SectionFieldIDs(sectionID string) []FieldID {
	sec, ok := idx.sections[sectionID]
	if !ok {
		return nil
	}
	var out []FieldID
	for ci := range sec.Components {
		out = append(out, sec.Components[ci].FieldIDs()...)
	}
	return out
}
