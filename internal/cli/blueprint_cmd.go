package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/cli/formatter"
	"github.com/deeg9/rfqengine/internal/engine"
	"github.com/deeg9/rfqengine/internal/repository"
)

func newBlueprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blueprint",
		Short: "Manage form blueprints",
	}

	cmd.AddCommand(
		newBlueprintListCmd(app),
		newBlueprintShowCmd(app),
		newBlueprintValidateCmd(),
		newBlueprintImportCmd(app),
		newBlueprintSeedCmd(app),
		newBlueprintRemoveCmd(app),
	)

	return cmd
}

func newBlueprintListCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered blueprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var records []*repository.BlueprintRecord
			var err error
			if category != "" {
				records, err = app.Blueprints.ListByCategory(ctx, category)
			} else {
				records, err = app.Blueprints.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println(formatter.Dim("No blueprints registered. Run 'rfqengine blueprint seed' to install the built-in catalog."))
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.Blueprint.FormID,
					formatter.Truncate(rec.Blueprint.Title, 40),
					rec.Blueprint.Category,
					fmt.Sprintf("%d", len(rec.Blueprint.Sections)),
				})
			}
			fmt.Print(formatter.RenderTable(
				[]string{"FORM ID", "TITLE", "CATEGORY", "SECTIONS"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	return cmd
}

func newBlueprintShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <form-id>",
		Short: "Show a blueprint's sections and fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Blueprints.GetByFormID(context.Background(), args[0])
			if err != nil {
				return err
			}
			idx, err := rec.Index()
			if err != nil {
				return fmt.Errorf("stored blueprint is no longer valid: %w", err)
			}

			fmt.Println(formatter.Header(rec.Blueprint.Title))
			if rec.Blueprint.Category != "" {
				fmt.Printf("Category: %s\n", rec.Blueprint.Category)
			}
			for _, sec := range rec.Blueprint.Sections {
				fmt.Printf("\n%s %s\n", formatter.Bold(sec.Title), formatter.Dim("("+sec.SectionID+")"))
				for _, id := range idx.SectionFieldIDs(sec.SectionID) {
					ref, _ := idx.FindField(id)
					fmt.Printf("  %-30s %s\n", id, formatter.Dim(string(ref.InputType())))
				}
			}
			return nil
		},
	}
}

func newBlueprintValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.json>",
		Short: "Validate a blueprint definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			idx, err := blueprint.Load(data)
			if err != nil {
				var loadErr *blueprint.LoadError
				if errors.As(err, &loadErr) {
					fmt.Printf("%s: %d problem(s)\n", loadErr.FormID, len(loadErr.Problems))
					for _, p := range loadErr.Problems {
						fmt.Printf("  %s %v\n", formatter.StyleRed.Render("✗"), p)
					}
					return fmt.Errorf("blueprint is invalid")
				}
				return err
			}

			fmt.Printf("%s %s: %d sections, %d fields\n",
				formatter.StyleGreen.Render("✓"),
				idx.Blueprint().FormID,
				len(idx.Blueprint().Sections),
				len(idx.AllFieldIDs()))
			return nil
		},
	}
}

func newBlueprintImportCmd(app *App) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Validate and register a blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			idx, err := blueprint.Load(data)
			if err != nil {
				return err
			}

			rec := &repository.BlueprintRecord{Blueprint: *idx.Blueprint()}
			if configPath != "" {
				cfgData, err := os.ReadFile(configPath)
				if err != nil {
					return err
				}
				cfg, err := engine.ParseConfig(cfgData)
				if err != nil {
					return err
				}
				if errs := engine.ValidateConfig(cfg, idx); len(errs) > 0 {
					for _, e := range errs {
						fmt.Printf("  %s %v\n", formatter.StyleRed.Render("✗"), e)
					}
					return fmt.Errorf("completeness config does not fit blueprint")
				}
				rec.Config = cfg
			}

			if err := app.Blueprints.Put(context.Background(), rec); err != nil {
				return err
			}
			fmt.Printf("Registered blueprint %s\n", rec.Blueprint.FormID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Completeness config file (JSON)")
	return cmd
}

func newBlueprintSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the built-in blueprint catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			for _, bp := range blueprint.SeedBlueprints() {
				if err := app.Blueprints.Put(ctx, &repository.BlueprintRecord{Blueprint: bp}); err != nil {
					return fmt.Errorf("seeding %s: %w", bp.FormID, err)
				}
				fmt.Printf("Installed %s (%s)\n", bp.FormID, bp.Title)
			}
			return nil
		},
	}
}

func newBlueprintRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <form-id>",
		Short: "Remove a blueprint and its drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Blueprints.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed blueprint %s\n", args[0])
			return nil
		},
	}
}

// loadBlueprint fetches a stored blueprint and rebuilds its index and
// effective completeness config.
func loadBlueprint(ctx context.Context, app *App, formID string) (*blueprint.Index, *engine.Config, error) {
	rec, err := app.Blueprints.GetByFormID(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	idx, err := rec.Index()
	if err != nil {
		return nil, nil, fmt.Errorf("stored blueprint is no longer valid: %w", err)
	}
	cfg := rec.Config
	if cfg == nil {
		cfg = engine.DefaultConfig(idx)
	}
	return idx, cfg, nil
}
