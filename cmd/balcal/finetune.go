package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/RMahshie/balcal/internal/config"
	"github.com/RMahshie/balcal/internal/finetune"
	"github.com/RMahshie/balcal/internal/llm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// reformatCmd rewrites a generated dataset into chart-text form
var reformatCmd = &cobra.Command{
	Use:   "reformat <input.jsonl> <output.jsonl>",
	Short: "Convert generated training data to chart-text form",
	Long: `Rewrites every assistant message holding a JSON chart array as
"{range} yards: {drop} inches" text. Records already in text form pass through.`,
	Args: cobra.ExactArgs(2),
	RunE: runReformat,
}

// finetuneCmd submits a dataset for fine-tuning
var finetuneCmd = &cobra.Command{
	Use:   "finetune <dataset.jsonl>",
	Short: "Reformat a dataset, upload it and start a fine-tuning job",
	Args:  cobra.ExactArgs(1),
	RunE:  runFinetune,
}

// statusCmd shows a fine-tuning job
var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the status of a fine-tuning job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runReformat(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}

	count, err := finetune.Reformat(in, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to reformat %s: %w", args[0], err)
	}

	log.Info().Int("records", count).Str("output", args[1]).Msg("Dataset reformatted")
	fmt.Fprintf(cmd.OutOrStdout(), "Reformatted %d records to %s\n", count, args[1])
	return nil
}

func runFinetune(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	svc := finetune.NewService(client, nil, nil, cfg.OpenAI.BaseModel)
	job, err := svc.Submit(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job ID       : %s\n", job.ID)
	fmt.Fprintf(out, "Status       : %s\n", job.Status)
	fmt.Fprintf(out, "Records      : %d\n", job.RecordCount)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	job, err := client.GetFineTuneJob(ctx, args[0])
	if err != nil {
		return err
	}

	printJob(cmd.OutOrStdout(), job)
	return nil
}

func printJob(w io.Writer, job *llm.FineTuneJob) {
	trained := "Not ready yet"
	if job.Status == llm.JobStatusSucceeded {
		trained = job.FineTunedModel
	}

	fmt.Fprintf(w, "Status       : %s\n", job.Status)
	fmt.Fprintf(w, "Created at   : %s\n", time.Unix(job.CreatedAt, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Model used   : %s\n", job.Model)
	fmt.Fprintf(w, "Trained model: %s\n", trained)
}
