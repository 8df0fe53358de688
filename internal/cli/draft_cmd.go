package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/cli/formatter"
	"github.com/deeg9/rfqengine/internal/renderer"
	"github.com/deeg9/rfqengine/internal/repository"
)

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage saved drafts",
	}

	cmd.AddCommand(
		newDraftListCmd(app),
		newDraftShowCmd(app),
		newDraftRemoveCmd(app),
	)

	return cmd
}

func newDraftListCmd(app *App) *cobra.Command {
	var formID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var drafts []*repository.Draft
			var err error
			if formID != "" {
				drafts, err = app.Drafts.ListByForm(ctx, formID)
			} else {
				drafts, err = app.Drafts.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				fmt.Println(formatter.Dim("No drafts saved."))
				return nil
			}

			rows := make([][]string, 0, len(drafts))
			for _, d := range drafts {
				name := d.Name
				if name == "" {
					name = formatter.Dim("(unnamed)")
				}
				rows = append(rows, []string{
					d.ID[:8],
					d.FormID,
					name,
					fmt.Sprintf("%d", d.Score),
					formatter.BandIndicator(d.Band),
					d.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Print(formatter.RenderTable(
				[]string{"ID", "FORM", "NAME", "SCORE", "BAND", "UPDATED"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&formID, "form", "", "Filter by form id")
	return cmd
}

// resolveDraftID matches a full draft id or a unique prefix.
func resolveDraftID(ctx context.Context, app *App, input string) (string, error) {
	drafts, err := app.Drafts.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, d := range drafts {
		if d.ID == input {
			return d.ID, nil
		}
		if len(input) >= 4 && len(d.ID) >= len(input) && d.ID[:len(input)] == input {
			matches = append(matches, d.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("draft not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("draft ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newDraftShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Show a draft's answers section by section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDraftID(ctx, app, args[0])
			if err != nil {
				return err
			}
			draft, err := app.Drafts.GetByID(ctx, id)
			if err != nil {
				return err
			}
			idx, _, err := loadBlueprint(ctx, app, draft.FormID)
			if err != nil {
				return err
			}

			store := answers.NewStore(idx)
			if err := store.LoadSnapshot(draft.Answers); err != nil {
				return fmt.Errorf("draft answers no longer fit the blueprint: %w", err)
			}
			snapshot := store.Snapshot()

			fmt.Println(formatter.Header(idx.Blueprint().Title))
			for si := range idx.Blueprint().Sections {
				sec := &idx.Blueprint().Sections[si]
				fmt.Printf("\n%s\n", formatter.Bold(sec.Title))
				for _, node := range renderer.RenderSection(sec, snapshot) {
					printNode(node)
				}
			}
			return nil
		},
	}
}

func printNode(node renderer.Node) {
	switch node.Kind {
	case renderer.NodeNote:
		fmt.Printf("  %s\n", formatter.Dim(node.Text))
	case renderer.NodeInput, renderer.NodeTextQuestion:
		printAnswerLine(node.Title, node.Text)
	case renderer.NodeSelect:
		printAnswerLine(node.Title, node.Selected)
	case renderer.NodeMultiSelect:
		printAnswerLine(node.Title, joinChoices(node.Choices))
	case renderer.NodeQuantityList:
		var parts []string
		for _, e := range node.Entries {
			if !e.Checked {
				continue
			}
			if e.Quantity != nil {
				parts = append(parts, fmt.Sprintf("%s ×%d", e.Label, *e.Quantity))
			} else {
				parts = append(parts, e.Label)
			}
		}
		printAnswerLine(node.Title, joinChoices(parts))
	}
}

func printAnswerLine(title, value string) {
	if value == "" {
		value = formatter.Dim("—")
	}
	fmt.Printf("  %-40s %s\n", formatter.Truncate(title, 40), value)
}

func joinChoices(choices []string) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

func newDraftRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <draft-id>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDraftID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Drafts.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed draft %s\n", id[:8])
			return nil
		},
	}
}
