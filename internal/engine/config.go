package engine

import (
	"encoding/json"
	"fmt"

	"github.com/deeg9/rfqengine/internal/blueprint"
)

// SectionRule holds the scoring inputs for one section: its weight share
// and which of its fields count as required vs optional. Fields listed in
// neither set do not affect the score.
type SectionRule struct {
	Weight   float64             `json:"weight"`
	Required []blueprint.FieldID `json:"required"`
	Optional []blueprint.FieldID `json:"optional,omitempty"`
}

// Config is the completeness configuration supplied per category or
// blueprint. Required-ness lives here, not in the blueprint, so the same
// form content can carry different requirements per environment.
type Config struct {
	Sections map[string]SectionRule `json:"sections"` // keyed by section id

	// OptionalBonusCap is the fraction of a section's weight that filled
	// optional fields can add on top of the required base. Zero means
	// "use the default".
	OptionalBonusCap float64 `json:"optional_bonus_cap,omitempty"`

	// Band cut points, inclusive lower bounds. Zero means "use the default".
	GoodThreshold      int `json:"good_threshold,omitempty"`
	ExcellentThreshold int `json:"excellent_threshold,omitempty"`
}

const (
	defaultOptionalBonusCap   = 0.10
	defaultGoodThreshold      = 50
	defaultExcellentThreshold = 80
)

func (c *Config) bonusCap() float64 {
	if c.OptionalBonusCap > 0 {
		return c.OptionalBonusCap
	}
	return defaultOptionalBonusCap
}

func (c *Config) goodAt() int {
	if c.GoodThreshold > 0 {
		return c.GoodThreshold
	}
	return defaultGoodThreshold
}

func (c *Config) excellentAt() int {
	if c.ExcellentThreshold > 0 {
		return c.ExcellentThreshold
	}
	return defaultExcellentThreshold
}

// IsRequired reports whether the config marks a field required in the
// given section.
func (c *Config) IsRequired(sectionID string, id blueprint.FieldID) bool {
	rule, ok := c.Sections[sectionID]
	if !ok {
		return false
	}
	for _, r := range rule.Required {
		if r == id {
			return true
		}
	}
	return false
}

// ParseConfig decodes a completeness config JSON document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing completeness config: %w", err)
	}
	return &cfg, nil
}

// ValidateConfig checks a config against the blueprint it will score.
// Returns a slice of problems (empty if valid). Unknown section ids and
// field ids are schema errors caught at load time, matching the policy
// that only schema errors halt initialization.
func ValidateConfig(cfg *Config, idx *blueprint.Index) []error {
	var errs []error

	if len(cfg.Sections) == 0 {
		errs = append(errs, fmt.Errorf("config has no section rules"))
	}

	total := 0.0
	for sectionID, rule := range cfg.Sections {
		if _, ok := idx.FindSection(sectionID); !ok {
			errs = append(errs, fmt.Errorf("config references unknown section %q", sectionID))
			continue
		}
		if rule.Weight < 0 {
			errs = append(errs, fmt.Errorf("section %q: negative weight %v", sectionID, rule.Weight))
		}
		total += rule.Weight

		for _, id := range append(append([]blueprint.FieldID{}, rule.Required...), rule.Optional...) {
			ref, ok := idx.FindField(id)
			if !ok {
				errs = append(errs, fmt.Errorf("section %q: unknown field id %q", sectionID, id))
				continue
			}
			if ref.SectionID != sectionID {
				errs = append(errs, fmt.Errorf("section %q: field %q belongs to section %q", sectionID, id, ref.SectionID))
			}
		}
	}

	if total <= 0 && len(cfg.Sections) > 0 {
		errs = append(errs, fmt.Errorf("section weights sum to %v; at least one positive weight is required", total))
	}

	return errs
}

// DefaultConfig derives a config that treats every declared field as
// required, with weight spread evenly across sections. Used when a
// category has no stored config yet.
func DefaultConfig(idx *blueprint.Index) *Config {
	sections := idx.Blueprint().Sections
	cfg := &Config{Sections: make(map[string]SectionRule, len(sections))}
	if len(sections) == 0 {
		return cfg
	}
	weight := 100.0 / float64(len(sections))
	for _, sec := range sections {
		cfg.Sections[sec.SectionID] = SectionRule{
			Weight:   weight,
			Required: idx.SectionFieldIDs(sec.SectionID),
		}
	}
	return cfg
}
