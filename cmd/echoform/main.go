// Command echoform is an interactive front end for the cognition pipeline.
// It opens (or creates) a SQLite memory, starts a session, and runs one
// turn per line of input, printing the reply along with the turn's scores,
// traits, and mutation level.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/echoform"
)

type config struct {
	DBPath        string `env:"ECHOFORM_DB" envDefault:"echoform.db"`
	ContextWindow int    `env:"ECHOFORM_CONTEXT_WINDOW" envDefault:"10"`
	ShowReasoning bool   `env:"ECHOFORM_SHOW_REASONING" envDefault:"true"`
	TraceStages   bool   `env:"ECHOFORM_TRACE_STAGES" envDefault:"false"`
}

func main() {
	root := &cobra.Command{
		Use:          "echoform",
		Short:        "Self-reflecting cognition pipeline with an evolving trait vector",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd)
		},
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command) error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	db, err := echoform.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	memory, err := echoform.NewSQLMemory(db)
	if err != nil {
		return err
	}

	if cfg.TraceStages {
		listener := capitan.Hook(echoform.StageCompleted, func(_ context.Context, e *capitan.Event) {
			name, _ := echoform.FieldStageName.From(e)
			dur, _ := echoform.FieldStageDuration.From(e)
			fmt.Fprintf(os.Stderr, "[stage] %s %v\n", name, dur)
		})
		defer listener.Close()
	}

	// With no provider configured every turn runs in deterministic
	// simulation mode.
	engine := echoform.NewEngine(memory, echoform.NewRemoteGenerator()).
		WithContextWindow(cfg.ContextWindow)

	ctx := cmd.Context()

	sessionID, err := engine.NewSession(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "echoform session %s\n", sessionID)
	fmt.Fprintln(out, "Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "\nYou > ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Fprintln(out, "\nSession closed.")
			break
		}

		result, err := engine.ProcessTurn(ctx, sessionID, input)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%s\n", result.Reply)

		fmt.Fprintf(out, "\n--- scores ---\n")
		fmt.Fprintf(out, "accuracy: %.2f  clarity: %.2f  depth: %.2f  originality: %.2f  overall: %.2f\n",
			result.Scores.Accuracy, result.Scores.Clarity, result.Scores.Depth,
			result.Scores.Originality, result.Scores.Overall)

		fmt.Fprintf(out, "--- traits ---\n")
		fmt.Fprintf(out, "creativity: %.2f  abstraction: %.2f  verbosity: %.2f  formality: %.2f\n",
			result.Traits.Creativity, result.Traits.Abstraction,
			result.Traits.Verbosity, result.Traits.Formality)

		fmt.Fprintf(out, "mutation level: %d\n", result.MutationLevel)

		if cfg.ShowReasoning {
			fmt.Fprintf(out, "\n[reasoning]\n%s\n", result.Reasoning)
			fmt.Fprintf(out, "[compressed] %s\n", result.Compressed)
		}
	}

	return scanner.Err()
}
