package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/observability"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/pipeline"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
)

var (
	planJobID string
	planForce bool
)

var planCmd = &cobra.Command{
	Use:   "plan [idea-id]",
	Short: "Generate or fetch the build plan for an idea",
	Long: `Generate the step-by-step build plan for an idea from a finished
analysis. Plans are cached per idea; --force regenerates.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planJobID, "job", "", "Job id the idea belongs to (required)")
	planCmd.Flags().BoolVar(&planForce, "force", false, "Regenerate even when a cached plan exists")
	if err := planCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, args []string) error {
	ideaID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid idea id: %w", err)
	}
	jobID, err := uuid.Parse(planJobID)
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}

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

	// Loading the job indexes its ideas for the plan lookup below.
	if _, err := service.GetJob(ctx, jobID); err != nil {
		return err
	}

	plan, err := service.GeneratePlan(ctx, ideaID, planForce)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintPlan(plan)

	fmt.Printf("\nSetup:\n%s\n", plan.SetupScript)
	for i, step := range plan.Steps {
		fmt.Printf("\n--- Step %d: %s ---\n%s\n\nPrompt:\n%s\n", i+1, step.Title, step.Instruction, step.Prompt)
	}
	return nil
}
