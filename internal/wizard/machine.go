// Package wizard owns step progression across a blueprint's sections:
// forward navigation is gated on validation of the current section,
// completed steps stay jumpable, and skipping ahead past unvalidated
// steps is rejected.
package wizard

import (
	"fmt"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/engine"
)

// ErrJumpNotAllowed is returned by JumpTo for steps that are neither
// completed nor at-or-before the current step.
var ErrJumpNotAllowed = fmt.Errorf("step not yet reachable")

// Machine tracks wizard progress for one form session. One state per
// section index, no sub-states; created when the form opens and
// discarded on submission or navigation away.
type Machine struct {
	idx       *blueprint.Index
	store     *answers.Store
	cfg       *engine.Config
	current   int
	completed map[int]bool
}

// New constructs a machine at step 0 with no completed steps. It
// refuses to start on a structurally invalid blueprint or a config that
// does not fit it: schema errors halt initialization, nothing else does.
func New(idx *blueprint.Index, store *answers.Store, cfg *engine.Config) (*Machine, error) {
	if problems := blueprint.Validate(idx.Blueprint()); len(problems) > 0 {
		return nil, &blueprint.LoadError{FormID: idx.Blueprint().FormID, Problems: problems}
	}
	if problems := engine.ValidateConfig(cfg, idx); len(problems) > 0 {
		return nil, fmt.Errorf("completeness config does not fit blueprint %s: %v",
			idx.Blueprint().FormID, problems[0])
	}
	return &Machine{
		idx:       idx,
		store:     store,
		cfg:       cfg,
		completed: make(map[int]bool),
	}, nil
}

// StepCount returns the number of wizard steps (sections).
func (m *Machine) StepCount() int { return len(m.idx.Blueprint().Sections) }

// CurrentStep returns the active step index.
func (m *Machine) CurrentStep() int { return m.current }

// CurrentSection returns the active section.
func (m *Machine) CurrentSection() *blueprint.Section {
	return &m.idx.Blueprint().Sections[m.current]
}

// IsCompleted reports whether a step has passed validation via GoNext.
func (m *Machine) IsCompleted(step int) bool { return m.completed[step] }

// CompletedSteps returns the completed step indices in ascending order.
func (m *Machine) CompletedSteps() []int {
	var out []int
	for i := 0; i < m.StepCount(); i++ {
		if m.completed[i] {
			out = append(out, i)
		}
	}
	return out
}

// ValidateCurrent validates only the active section.
func (m *Machine) ValidateCurrent() engine.Result {
	return engine.Validate(m.idx, m.store.Snapshot(), m.cfg, m.CurrentSection().SectionID)
}

// GoNext validates the current section; on success it marks the step
// completed and advances, clamped at the last step. Final submission is
// a distinct external action, not a wizard transition. The validation
// result is returned either way so the host can surface field errors.
func (m *Machine) GoNext() (advanced bool, result engine.Result) {
	result = m.ValidateCurrent()
	if result.HasErrors() {
		return false, result
	}
	m.completed[m.current] = true
	if m.current < m.StepCount()-1 {
		m.current++
		return true, result
	}
	return false, result
}

// GoPrevious moves back one step, clamped at 0. Always allowed; does
// not un-mark completion.
func (m *Machine) GoPrevious() {
	if m.current > 0 {
		m.current--
	}
}

// JumpTo moves to an arbitrary step. Allowed only for completed steps
// or steps at or before the current one; skipping ahead past
// unvalidated steps is rejected and the state is unchanged.
func (m *Machine) JumpTo(step int) error {
	if step < 0 || step >= m.StepCount() {
		return fmt.Errorf("step %d out of range [0,%d)", step, m.StepCount())
	}
	if !m.completed[step] && step > m.current {
		return ErrJumpNotAllowed
	}
	m.current = step
	return nil
}

// IsReadyToSubmit reports whether the session is on the last step and
// the whole form passes required validation. A query, not a state.
func (m *Machine) IsReadyToSubmit() bool {
	if m.current != m.StepCount()-1 {
		return false
	}
	return !engine.Validate(m.idx, m.store.Snapshot(), m.cfg, "").HasErrors()
}

// Score returns the live completeness score for the session.
func (m *Machine) Score() engine.CompletenessScore {
	return engine.Score(m.idx, m.store.Snapshot(), m.cfg)
}
