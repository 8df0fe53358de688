package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/assistant"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/cli/formatter"
	"github.com/deeg9/rfqengine/internal/engine"
	"github.com/deeg9/rfqengine/internal/renderer"
	"github.com/deeg9/rfqengine/internal/repository"
	"github.com/deeg9/rfqengine/internal/wizard"
)

// suggestionsMsg carries assistant output into the update loop.
type suggestionsMsg struct {
	sectionID string
	items     []assistant.Suggestion
}

// fillKeyMap is the session-level keymap, layered over the form's own
// field navigation.
type fillKeyMap struct {
	Next     key.Binding
	Previous key.Binding
	Save     key.Binding
	Quit     key.Binding
	Abort    key.Binding
}

func defaultFillKeyMap() fillKeyMap {
	return fillKeyMap{
		Next:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next section")),
		Previous: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "save & quit")),
		Abort:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "abort")),
	}
}

// fillModel drives one form-filling session: a wizard over the
// blueprint's sections, a huh form per section, a live completeness
// meter, and an assistant panel fed by the debounced notifier.
type fillModel struct {
	app     *App
	idx     *blueprint.Index
	store   *answers.Store
	cfg     *engine.Config
	machine *wizard.Machine
	draft   *repository.Draft

	form     *huh.Form
	bindings []*fieldBinding
	errs     engine.Result

	notifier     *assistant.Notifier
	suggestionCh chan suggestionsMsg
	suggestions  []assistant.Suggestion
	globalAdvice []assistant.Suggestion

	keys fillKeyMap

	width     int
	status    string
	submitted bool
	quitting  bool
}

func newFillModel(app *App, idx *blueprint.Index, cfg *engine.Config, store *answers.Store, machine *wizard.Machine, draft *repository.Draft) *fillModel {
	m := &fillModel{
		app:          app,
		idx:          idx,
		store:        store,
		cfg:          cfg,
		machine:      machine,
		draft:        draft,
		suggestionCh: make(chan suggestionsMsg, 4),
		keys:         defaultFillKeyMap(),
	}
	m.notifier = assistant.NewNotifier(app.Suggester, assistant.DefaultDebounce,
		func(sectionID string, items []assistant.Suggestion) {
			// Non-blocking: if the program already quit nobody drains
			// the channel, and a late delivery must not strand the
			// notifier's goroutine.
			select {
			case m.suggestionCh <- suggestionsMsg{sectionID: sectionID, items: items}:
			default:
			}
		})
	m.rebuildForm()
	return m
}

// rebuildForm re-renders the current section into a fresh huh form,
// carrying the latest errors and attached suggestions.
func (m *fillModel) rebuildForm() {
	sec := m.machine.CurrentSection()
	nodes := renderer.RenderSection(sec, m.store.Snapshot())
	if m.errs != nil {
		nodes = renderer.WithErrors(nodes, m.errs)
	}
	nodes, m.globalAdvice = renderer.AttachSuggestions(nodes, m.suggestions)
	m.form, m.bindings = buildSectionForm(nodes)
}

func (m *fillModel) notifyAssistant() {
	sec := m.machine.CurrentSection()
	m.notifier.ContextChanged(
		assistant.NewSectionContext(m.idx, sec.SectionID, m.store.Snapshot()))
}

func (m *fillModel) waitForSuggestions() tea.Cmd {
	return func() tea.Msg { return <-m.suggestionCh }
}

func (m *fillModel) Init() tea.Cmd {
	m.notifyAssistant()
	return tea.Batch(m.form.Init(), m.waitForSuggestions())
}

func (m *fillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case suggestionsMsg:
		// A response for a section the user already left is stale even
		// after the notifier's own check, since messages queue.
		if msg.sectionID == m.machine.CurrentSection().SectionID {
			m.suggestions = msg.items
			m.rebuildForm()
			return m, tea.Batch(m.form.Init(), m.waitForSuggestions())
		}
		return m, m.waitForSuggestions()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.commitCurrent()
			m.saveDraft()
			m.status = "Draft saved."
			m.quitting = true
			m.notifier.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Abort):
			m.quitting = true
			m.notifier.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Save):
			m.commitCurrent()
			m.saveDraft()
			m.status = "Draft saved."
			return m, nil

		case key.Matches(msg, m.keys.Previous):
			m.commitCurrent()
			m.machine.GoPrevious()
			m.afterNavigation()
			return m, m.form.Init()

		case key.Matches(msg, m.keys.Next):
			return m, m.advance()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.advance()
	}
	return m, cmd
}

// advance commits the section and asks the wizard to move forward. On
// the last step a fully valid form submits instead.
func (m *fillModel) advance() tea.Cmd {
	m.commitCurrent()
	before := m.machine.CurrentStep()
	advanced, result := m.machine.GoNext()

	switch {
	case advanced:
		m.afterNavigation()
		return m.form.Init()

	case result.HasErrors():
		m.errs = result
		m.suggestions = nil
		m.rebuildForm()
		m.status = fmt.Sprintf("%d field(s) need attention before moving on.", len(result))
		return m.form.Init()

	case before == m.machine.StepCount()-1 && m.machine.IsReadyToSubmit():
		m.saveDraft()
		m.submitted = true
		m.quitting = true
		m.notifier.Close()
		return tea.Quit

	default:
		// Last section is clean but an earlier one is not: point the
		// user back instead of submitting a half-valid form.
		whole := engine.Validate(m.idx, m.store.Snapshot(), m.cfg, "")
		m.errs = nil
		m.rebuildForm()
		m.status = fmt.Sprintf("%d field(s) elsewhere still need attention.", len(whole))
		return m.form.Init()
	}
}

func (m *fillModel) afterNavigation() {
	m.errs = nil
	m.suggestions = nil
	m.globalAdvice = nil
	m.status = ""
	m.rebuildForm()
	m.notifyAssistant()
}

func (m *fillModel) commitCurrent() {
	if err := commitBindings(m.store, m.bindings); err != nil {
		m.status = err.Error()
	}
}

func (m *fillModel) saveDraft() {
	data, err := m.store.MarshalSnapshot()
	if err != nil {
		m.status = fmt.Sprintf("could not serialize answers: %v", err)
		return
	}
	score := m.machine.Score()
	m.draft.Answers = data
	m.draft.Step = m.machine.CurrentStep()
	m.draft.Score = score.Value
	m.draft.Band = score.Band
	if err := m.app.Drafts.Save(context.Background(), m.draft); err != nil {
		m.status = fmt.Sprintf("could not save draft: %v", err)
	}
}

func (m *fillModel) View() string {
	if m.quitting {
		if m.submitted {
			return fmt.Sprintf("%s RFQ submitted at %s\n",
				formatter.StyleGreen.Render("✓"),
				formatter.RenderScore(m.machine.Score(), 20))
		}
		if m.status != "" {
			return m.status + "\n"
		}
		return ""
	}

	var b strings.Builder
	sec := m.machine.CurrentSection()

	b.WriteString(formatter.Header(m.idx.Blueprint().Title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s %d/%d: %s\n",
		formatter.RenderStepper(m.machine.StepCount(), m.machine.CurrentStep(), m.machine.IsCompleted),
		formatter.Dim("Step"),
		m.machine.CurrentStep()+1,
		m.machine.StepCount(),
		formatter.Bold(sec.Title)))
	b.WriteString(formatter.RenderScore(m.machine.Score(), 30))
	b.WriteString("\n\n")

	b.WriteString(m.form.View())

	if len(m.globalAdvice) > 0 {
		var advice []string
		for _, s := range m.globalAdvice {
			advice = append(advice, "💡 "+s.Text)
		}
		b.WriteString("\n" + formatter.RenderBox("Assistant", strings.Join(advice, "\n")))
	}

	if m.status != "" {
		b.WriteString("\n" + formatter.StyleYellow.Render(m.status))
	}
	b.WriteString("\n" + formatter.Dim(renderHelp(m.keys)))
	return b.String()
}

func renderHelp(keys fillKeyMap) string {
	bindings := []key.Binding{keys.Next, keys.Previous, keys.Save, keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " · ")
}
