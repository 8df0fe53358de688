package cli

import (
	"github.com/spf13/cobra"

	"github.com/deeg9/rfqengine/internal/assistant"
	"github.com/deeg9/rfqengine/internal/repository"
)

// App holds references to the stores and services used by CLI commands.
type App struct {
	Blueprints repository.BlueprintRepo
	Drafts     repository.DraftRepo
	Suggester  assistant.Suggester

	// IsInteractive reports whether stdin is a terminal. The fill
	// command refuses to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "rfqengine" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "rfqengine",
		Short: "Schema-driven RFQ form engine",
		Long: `rfqengine renders RFQ form blueprints as guided wizards,
validates answers, and scores how complete a request for
quotation is before it goes out to vendors.`,
	}

	root.AddCommand(
		newBlueprintCmd(app),
		newDraftCmd(app),
		newFillCmd(app),
		newScoreCmd(app),
	)

	return root
}
