package blueprint

import (
	"encoding/json"
	"fmt"
)

// LoadError carries the full structural problem list from a failed load,
// so callers can report every schema error at once.
type LoadError struct {
	FormID   string
	Problems []error
}

func (e *LoadError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("blueprint %s: %v", e.FormID, e.Problems[0])
	}
	return fmt.Sprintf("blueprint %s: %d schema problems (first: %v)",
		e.FormID, len(e.Problems), e.Problems[0])
}

// Load parses a blueprint JSON document, validates it, and builds the
// lookup index. This is the only supported way to obtain an Index; it
// guarantees the invariant that an indexed blueprint is structurally valid.
func Load(data []byte) (*Index, error) {
	var bp Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("parsing blueprint: %w", err)
	}
	return FromBlueprint(&bp)
}

// FromBlueprint validates an already-constructed blueprint and indexes it.
func FromBlueprint(bp *Blueprint) (*Index, error) {
	if problems := Validate(bp); len(problems) > 0 {
		return nil, &LoadError{FormID: bp.FormID, Problems: problems}
	}
	return NewIndex(bp), nil
}
