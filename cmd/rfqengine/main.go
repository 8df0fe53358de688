package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/deeg9/rfqengine/internal/assistant"
	"github.com/deeg9/rfqengine/internal/cli"
	"github.com/deeg9/rfqengine/internal/db"
	"github.com/deeg9/rfqengine/internal/llm"
	"github.com/deeg9/rfqengine/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.rfqengine/rfqengine.db
	dbPath := os.Getenv("RFQENGINE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".rfqengine", "rfqengine.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		Blueprints: repository.NewSQLiteBlueprintRepo(database),
		Drafts:     repository.NewSQLiteDraftRepo(database),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// The assistant runs against a local model only when enabled;
	// otherwise suggestions come from the blueprints' smart prompts.
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		app.Suggester = assistant.NewLLMSuggester(llm.NewOllamaClient(llmCfg, observer), observer)
	} else {
		app.Suggester = assistant.StaticSuggester{}
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
