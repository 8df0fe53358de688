package blueprint

import "fmt"

// Validate checks a Blueprint for structural errors.
// Returns a slice of errors (empty if valid). A blueprint with a
// non-empty problem list must not enter the wizard.
func Validate(bp *Blueprint) []error {
	var errs []error

	if bp.FormID == "" {
		errs = append(errs, fmt.Errorf("form id is required"))
	}
	if bp.Title == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	if len(bp.Sections) == 0 {
		errs = append(errs, fmt.Errorf("at least one section is required"))
	}

	sectionIDs := map[string]bool{}
	fieldIDs := map[FieldID]bool{}

	for si, sec := range bp.Sections {
		if sec.SectionID == "" {
			errs = append(errs, fmt.Errorf("section[%d]: section_id is required", si))
		}
		if sec.Title == "" {
			errs = append(errs, fmt.Errorf("section[%d]: title is required", si))
		}
		if sectionIDs[sec.SectionID] {
			errs = append(errs, fmt.Errorf("section[%d]: duplicate section_id %q", si, sec.SectionID))
		}
		sectionIDs[sec.SectionID] = true

		for ci, comp := range sec.Components {
			where := fmt.Sprintf("section[%d].component[%d]", si, ci)
			switch comp.Kind {
			case KindInstructionalText:
				if comp.Text == nil || comp.Text.Content == "" {
					errs = append(errs, fmt.Errorf("%s: instructional text needs content", where))
				}
			case KindKeyValueTable:
				if comp.Table == nil || len(comp.Table.Rows) == 0 {
					errs = append(errs, fmt.Errorf("%s: table needs at least one row", where))
					continue
				}
				tableLabels := map[string]bool{}
				for ri, row := range comp.Table.Rows {
					if row.Label == "" {
						errs = append(errs, fmt.Errorf("%s.row[%d]: label is required", where, ri))
						continue
					}
					if tableLabels[row.Label] {
						errs = append(errs, fmt.Errorf("%s.row[%d]: duplicate label %q within table", where, ri, row.Label))
					}
					tableLabels[row.Label] = true
					if !ValidRowInputTypes[row.InputType] {
						errs = append(errs, fmt.Errorf("%s.row[%d]: invalid input type %q", where, ri, row.InputType))
					}
					if fieldIDs[FieldID(row.Label)] {
						errs = append(errs, fmt.Errorf("%s.row[%d]: field id %q already declared elsewhere", where, ri, row.Label))
					}
					fieldIDs[FieldID(row.Label)] = true
				}
			case KindQuestionList:
				if comp.Question == nil || len(comp.Question.Questions) == 0 {
					errs = append(errs, fmt.Errorf("%s: question list needs at least one question", where))
					continue
				}
				for qi, q := range comp.Question.Questions {
					if q.ID == "" {
						errs = append(errs, fmt.Errorf("%s.question[%d]: id is required", where, qi))
						continue
					}
					if q.QuestionText == "" {
						errs = append(errs, fmt.Errorf("%s.question[%d]: question_text is required", where, qi))
					}
					if !ValidQuestionInputTypes[q.InputType] {
						errs = append(errs, fmt.Errorf("%s.question[%d]: invalid input type %q", where, qi, q.InputType))
					}
					if q.InputType.IsChoice() && len(q.Options) == 0 {
						errs = append(errs, fmt.Errorf("%s.question[%d]: choice question %q has no options", where, qi, q.ID))
					}
					if !q.InputType.IsChoice() && len(q.Options) > 0 {
						errs = append(errs, fmt.Errorf("%s.question[%d]: non-choice question %q declares options", where, qi, q.ID))
					}
					if fieldIDs[FieldID(q.ID)] {
						errs = append(errs, fmt.Errorf("%s.question[%d]: field id %q already declared elsewhere", where, qi, q.ID))
					}
					fieldIDs[FieldID(q.ID)] = true
				}
			default:
				errs = append(errs, fmt.Errorf("%s: unknown component kind %q", where, comp.Kind))
			}
		}
	}

	return errs
}
