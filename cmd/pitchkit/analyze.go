package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/bundle"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/observability"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/pipeline"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

var (
	analyzeChoice  int
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [subject]",
	Short: "Run a one-shot analysis from the command line",
	Long: `Analyze a company name or URL and print the generated prototype ideas.
When the subject is ambiguous the candidate entities are listed; re-run
with --choice to pick one.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeChoice, "choice", 0, "1-based disambiguation option from a previous run")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print company, theme and evidence details")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	input := args[0]
	ctx := context.Background()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	service := pipeline.NewService(cfg, st)

	var choice *types.DisambiguationOption
	result, err := service.StartAnalysis(ctx, input, choice)
	if err != nil {
		return err
	}

	if result.NeedsDisambiguation {
		if analyzeChoice < 1 || analyzeChoice > len(result.Options) {
			fmt.Printf("%q could mean several things:\n", input)
			for i, opt := range result.Options {
				fmt.Printf("  %d. %s", i+1, opt.Label)
				if opt.Description != "" {
					fmt.Printf(" - %s", opt.Description)
				}
				fmt.Println()
			}
			fmt.Println("\nRe-run with --choice N to pick one.")
			return nil
		}
		picked := result.Options[analyzeChoice-1]
		result, err = service.StartAnalysis(ctx, input, &picked)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Analyzing %q...\n", input)
	if err := service.Wait(ctx, result.JobID); err != nil {
		return err
	}

	job, err := service.GetJob(ctx, result.JobID)
	if err != nil {
		return err
	}
	if job.Status == types.JobFailed {
		return fmt.Errorf("analysis failed; restart to try again")
	}

	printer := observability.NewPrinter(os.Stdout)
	if analyzeVerbose {
		printer.PrintCompany(job.Company)
		printer.PrintTheme(job.Theme)
		printer.PrintEvidence(job.Evidence)
		if job.Bundle != nil {
			fmt.Printf("\n%s\n%s\n", bundle.Digest(job.Bundle), bundle.Preview(job.Bundle, 600))
		}
	}
	printer.PrintIdeas(job.Ideas)

	return nil
}
