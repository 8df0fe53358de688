package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/deeg9/rfqengine/internal/answers"
	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/cli/formatter"
	"github.com/deeg9/rfqengine/internal/engine"
)

func newScoreCmd(app *App) *cobra.Command {
	var showErrors bool

	cmd := &cobra.Command{
		Use:   "score <draft-id>",
		Short: "Score a draft's completeness",
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
			idx, cfg, err := loadBlueprint(ctx, app, draft.FormID)
			if err != nil {
				return err
			}

			store := answers.NewStore(idx)
			if err := store.LoadSnapshot(draft.Answers); err != nil {
				return fmt.Errorf("draft answers no longer fit the blueprint: %w", err)
			}
			snapshot := store.Snapshot()

			score, breakdown := engine.ScoreWithBreakdown(idx, snapshot, cfg)
			fmt.Println(formatter.Header(idx.Blueprint().Title))
			fmt.Println(formatter.RenderScore(score, 30))
			fmt.Println()

			rows := make([][]string, 0, len(breakdown))
			for _, b := range breakdown {
				title := b.SectionID
				if sec, ok := idx.FindSection(b.SectionID); ok {
					title = sec.Title
				}
				rows = append(rows, []string{
					formatter.Truncate(title, 36),
					fmt.Sprintf("%d/%d", b.RequiredMet, b.RequiredAll),
					fmt.Sprintf("%d/%d", b.OptionalMet, b.OptionalAll),
					fmt.Sprintf("%.1f of %.1f", b.Contribution, b.Weight),
				})
			}
			fmt.Print(formatter.RenderTable(
				[]string{"SECTION", "REQUIRED", "OPTIONAL", "POINTS"}, rows))

			result := engine.Validate(idx, snapshot, cfg, "")
			if !result.HasErrors() {
				fmt.Printf("\n%s ready to submit\n", formatter.StyleGreen.Render("✓"))
				return nil
			}

			fmt.Printf("\n%s %d field(s) still need attention\n",
				formatter.StyleYellow.Render("!"), len(result))
			if showErrors {
				ids := make([]string, 0, len(result))
				for fid := range result {
					ids = append(ids, string(fid))
				}
				sort.Strings(ids)
				for _, fid := range ids {
					fmt.Printf("  %-30s %s\n", fid, formatter.Dim(result[blueprint.FieldID(fid)]))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showErrors, "errors", false, "List each failing field")
	return cmd
}
