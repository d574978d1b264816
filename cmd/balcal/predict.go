package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/balcal/internal/ballistic"
	"github.com/RMahshie/balcal/internal/config"
	"github.com/RMahshie/balcal/internal/predictor"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/spf13/cobra"
)

const tableRule = "---------------------------"

var (
	promptText  string
	fieldValues = map[string]*string{}
)

// predictCmd predicts a drop chart
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a drop chart for a bullet and environment",
	Long: `Builds a prompt from the field flags (or takes --prompt verbatim),
queries the model and prints the decoded chart as JSON and as a table.

Example:
  balcal predict --caliber 0.2 --bullet-weight 368 --bullet-length 3 \
    --muzzle-velocity 3700 --ballistic-coefficient 0.7 --barrel-length 50 \
    --sight-height 4 --twist-rate 11 --temperature 70 --altitude 500 \
    --humidity 30 --pressure 29.92 --wind-speed 5 --distance-from-zero 200`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&promptText, "prompt", "", "Prompt text to send as-is instead of field flags")
	for _, field := range ballistic.Full.Fields {
		v := new(string)
		fieldValues[field] = v
		predictCmd.Flags().StringVar(v, flagName(field), "", field)
	}
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// fieldInput collects the field flags that were set on cmd, keeping each value as written
func fieldInput(cmd *cobra.Command) (models.BallisticInput, error) {
	input := models.BallisticInput{}
	for field, v := range fieldValues {
		if !cmd.Flags().Changed(flagName(field)) {
			continue
		}
		value := strings.TrimSpace(*v)
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, fmt.Errorf("invalid --%s %q: not a number", flagName(field), *v)
		}
		input[field] = json.Number(value)
	}
	return input, nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	schema, err := ballistic.SchemaByName(cfg.Prediction.Schema)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	p := predictor.New(client, ballistic.NewEncoder(schema), ballistic.Decoder{Strict: cfg.Prediction.StrictDecode})

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var result *predictor.Result
	if promptText != "" {
		result, err = p.PredictPrompt(ctx, promptText)
	} else {
		input, inputErr := fieldInput(cmd)
		if inputErr != nil {
			return inputErr
		}
		result, err = p.Predict(ctx, input)
	}
	var parseErr *ballistic.ParseError
	if errors.As(err, &parseErr) {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Error parsing model output:")
		fmt.Fprintln(errOut, parseErr.Raw)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	data, err := json.MarshalIndent(result.Chart, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	fmt.Fprintln(out, "--- Predicted Drop Chart (JSON) ---")
	fmt.Fprintln(out, string(data))

	printTable(out, result.Chart)
	return nil
}

// printTable writes chart as a fixed-width text table
func printTable(w io.Writer, chart models.DropChart) {
	fmt.Fprintln(w, "\n--- Ballistic Drop Table ---")
	fmt.Fprintf(w, "%-12s | %-12s\n", "Range (yards)", "Drop (inches)")
	fmt.Fprintln(w, tableRule)
	for _, entry := range chart {
		fmt.Fprintf(w, "%-12d | %-12.2f\n", entry.RangeYd, entry.DropIn)
	}
	fmt.Fprintln(w, tableRule)
}
