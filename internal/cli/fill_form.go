package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/cli/formatter"
	"github.com/deeg9/rfqengine/internal/renderer"
)

// rfqHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func rfqHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// fieldBinding is the mutable staging area one huh field edits. Values
// are committed to the answer store only when the section form
// completes or the user navigates away.
type fieldBinding struct {
	id      blueprint.FieldID
	kind    renderer.NodeKind
	options []string

	text     string   // input / text question
	selected string   // select
	multi    []string // multi select and quantity checks
	qtySpec  string   // "label=count" pairs for quantity lists
}

// buildSectionForm turns rendered nodes into one huh form plus the
// bindings to commit afterwards. Field errors from the last validation
// pass ride along as descriptions.
func buildSectionForm(nodes []renderer.Node) (*huh.Form, []*fieldBinding) {
	var fields []huh.Field
	var bindings []*fieldBinding

	for i := range nodes {
		node := nodes[i]
		if node.Kind == renderer.NodeNote {
			fields = append(fields, huh.NewNote().Description(node.Text))
			continue
		}

		b := &fieldBinding{id: node.FieldID, kind: node.Kind, options: node.Options}
		bindings = append(bindings, b)
		desc := fieldDescription(node)

		switch node.Kind {
		case renderer.NodeInput:
			b.text = node.Text
			fields = append(fields, huh.NewInput().
				Title(node.Title).
				Description(desc).
				Value(&b.text).
				Validate(inputValidator(node.InputType)))

		case renderer.NodeTextQuestion:
			b.text = node.Text
			fields = append(fields, huh.NewText().
				Title(node.Title).
				Description(desc).
				Value(&b.text))

		case renderer.NodeSelect:
			b.selected = node.Selected
			fields = append(fields, huh.NewSelect[string]().
				Title(node.Title).
				Description(desc).
				Options(stringOptions(node.Options)...).
				Value(&b.selected))

		case renderer.NodeMultiSelect:
			b.multi = append(b.multi, node.Choices...)
			fields = append(fields, huh.NewMultiSelect[string]().
				Title(node.Title).
				Description(desc).
				Options(stringOptions(node.Options)...).
				Value(&b.multi))

		case renderer.NodeQuantityList:
			for _, e := range node.Entries {
				if e.Checked {
					b.multi = append(b.multi, e.Label)
				}
				if e.Quantity != nil {
					if b.qtySpec != "" {
						b.qtySpec += ", "
					}
					b.qtySpec += fmt.Sprintf("%s=%d", e.Label, *e.Quantity)
				}
			}
			fields = append(fields,
				huh.NewMultiSelect[string]().
					Title(node.Title).
					Description(desc).
					Options(stringOptions(node.Options)...).
					Value(&b.multi),
				huh.NewInput().
					Title("Quantities").
					Description("Optional counts as label=n, comma separated").
					Placeholder("e.g. "+placeholderQty(node.Options)).
					Value(&b.qtySpec).
					Validate(quantitySpecValidator(node.Options)))
		}
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(rfqHuhTheme()).
		WithShowHelp(false)
	return form, bindings
}

func fieldDescription(node renderer.Node) string {
	parts := make([]string, 0, 3)
	if node.Help != "" {
		parts = append(parts, node.Help)
	}
	for _, s := range node.Attached {
		parts = append(parts, formatter.StyleBlue.Render("💡 "+s.Text))
	}
	if node.Error != "" {
		parts = append(parts, formatter.StyleRed.Render("✗ "+node.Error))
	}
	return strings.Join(parts, "\n")
}

func stringOptions(options []string) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		out = append(out, huh.NewOption(o, o))
	}
	return out
}

func placeholderQty(options []string) string {
	if len(options) == 0 {
		return "item=2"
	}
	return options[0] + "=2"
}

// inputValidator enforces the typed text formats at entry time. Empty
// stays allowed here; required-ness is the engine's call, not the
// widget's.
func inputValidator(t blueprint.InputType) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		switch t {
		case blueprint.InputEmail:
			if !strings.Contains(s, "@") || strings.HasPrefix(s, "@") || strings.HasSuffix(s, "@") {
				return fmt.Errorf("enter an email address")
			}
		case blueprint.InputNumber:
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				return fmt.Errorf("enter a number")
			}
		case blueprint.InputDate:
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return fmt.Errorf("use YYYY-MM-DD format")
			}
		}
		return nil
	}
}

// quantitySpecValidator accepts empty or "label=n" pairs with known
// labels and non-negative counts.
func quantitySpecValidator(options []string) func(string) error {
	known := make(map[string]bool, len(options))
	for _, o := range options {
		known[o] = true
	}
	return func(s string) error {
		_, err := parseQuantitySpec(s, known)
		return err
	}
}

func parseQuantitySpec(s string, known map[string]bool) (map[string]int, error) {
	out := map[string]int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, countStr, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("use label=count pairs")
		}
		label = strings.TrimSpace(label)
		if !known[label] {
			return nil, fmt.Errorf("%q is not one of the available options", label)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("count for %q must be a non-negative number", label)
		}
		out[label] = count
	}
	return out, nil
}

// commit writes the staged bindings back to the answer store. Cleared
// fields are deleted so they read as unanswered rather than malformed.
func commitBindings(store *answers.Store, bindings []*fieldBinding) error {
	for _, b := range bindings {
		var err error
		switch b.kind {
		case renderer.NodeInput, renderer.NodeTextQuestion:
			err = store.Set(b.id, answers.Text{Text: b.text})

		case renderer.NodeSelect:
			if b.selected == "" {
				store.Delete(b.id)
			} else {
				err = store.Set(b.id, answers.SingleChoice{Selected: b.selected})
			}

		case renderer.NodeMultiSelect:
			if len(b.multi) == 0 {
				store.Delete(b.id)
			} else {
				err = store.Set(b.id, answers.MultiChoice{Selected: append([]string(nil), b.multi...)})
			}

		case renderer.NodeQuantityList:
			known := make(map[string]bool, len(b.options))
			for _, o := range b.options {
				known[o] = true
			}
			counts, specErr := parseQuantitySpec(b.qtySpec, known)
			if specErr != nil {
				counts = map[string]int{}
			}
			checked := make(map[string]bool, len(b.multi))
			for _, label := range b.multi {
				checked[label] = true
			}
			var entries []answers.QuantityEntry
			for _, o := range b.options {
				if !checked[o] {
					continue
				}
				entry := answers.QuantityEntry{Label: o, Checked: true}
				if n, ok := counts[o]; ok {
					qty := n
					entry.Quantity = &qty
				}
				entries = append(entries, entry)
			}
			if len(entries) == 0 {
				store.Delete(b.id)
			} else {
				err = store.Set(b.id, answers.QuantityChoice{Entries: entries})
			}
		}
		if err != nil {
			return fmt.Errorf("saving %s: %w", b.id, err)
		}
	}
	return nil
}
