package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/cli/formatter"
	"github.com/deeg9/rfqengine/internal/repository"
	"github.com/deeg9/rfqengine/internal/wizard"
)

func newFillCmd(app *App) *cobra.Command {
	var draftID, name string

	cmd := &cobra.Command{
		Use:   "fill [form-id]",
		Short: "Fill a form interactively",
		Long: `Fill walks the blueprint's sections as a wizard: each section is one
form step, moving forward requires the section to validate, and the
completeness score updates live. Progress is saved as a draft.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("fill needs an interactive terminal")
			}

			ctx := context.Background()
			var draft *repository.Draft

			switch {
			case draftID != "":
				id, err := resolveDraftID(ctx, app, draftID)
				if err != nil {
					return err
				}
				draft, err = app.Drafts.GetByID(ctx, id)
				if err != nil {
					return err
				}
			case len(args) == 1:
				draft = &repository.Draft{FormID: args[0], Name: name, Answers: []byte("{}")}
			default:
				return fmt.Errorf("pass a form id to start or --draft to resume")
			}

			idx, cfg, err := loadBlueprint(ctx, app, draft.FormID)
			if err != nil {
				return err
			}

			store := answers.NewStore(idx)
			if len(draft.Answers) > 0 {
				if err := store.LoadSnapshot(draft.Answers); err != nil {
					return fmt.Errorf("draft answers no longer fit the blueprint: %w", err)
				}
			}

			machine, err := wizard.New(idx, store, cfg)
			if err != nil {
				return err
			}
			// Resume where the draft left off; jumping backward or to a
			// completed step is always allowed, so a stale step falls
			// back to the start.
			if draft.Step > 0 {
				for i := 0; i < draft.Step; i++ {
					if advanced, _ := machine.GoNext(); !advanced {
						break
					}
				}
			}

			model := newFillModel(app, idx, cfg, store, machine, draft)
			program := tea.NewProgram(model, tea.WithAltScreen())
			final, err := program.Run()
			if err != nil {
				return fmt.Errorf("running form: %w", err)
			}

			if fm, ok := final.(*fillModel); ok {
				score := fm.machine.Score()
				switch {
				case fm.submitted:
					fmt.Printf("%s RFQ complete. %s\n",
						formatter.StyleGreen.Render("✓"), formatter.RenderScore(score, 30))
					payload, err := json.MarshalIndent(answers.Flatten(store.Snapshot()), "", "  ")
					if err == nil {
						fmt.Printf("\nSubmission payload:\n%s\n", payload)
					}
				case fm.draft.ID != "":
					fmt.Printf("Draft %s saved. %s\n",
						fm.draft.ID[:8], formatter.RenderScore(score, 30))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&draftID, "draft", "", "Resume a saved draft")
	cmd.Flags().StringVar(&name, "name", "", "Name for the new draft")
	return cmd
}
