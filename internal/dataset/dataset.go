package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/RMahshie/balcal/internal/ballistic"
	"github.com/RMahshie/balcal/pkg/models"
)

// ErrEmptyChart is returned for assistant content that decodes to a chart with no entries
var ErrEmptyChart = errors.New("assistant content has no drop chart entries")

const maxLineSize = 10 * 1024 * 1024

// Message is a single chat turn in a training record
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is one line of a chat fine-tuning dataset
type Record struct {
	Messages []Message `json:"messages"`
}

// NewRecord builds a training record pairing a prompt with its drop chart text
func NewRecord(prompt string, chart models.DropChart) Record {
	return Record{
		Messages: []Message{
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: ballistic.FormatChart(chart)},
		},
	}
}

// Read parses newline-delimited JSON records. Blank lines are skipped.
func Read(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid record: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	return records, nil
}

// Write emits one compact JSON record per line
func Write(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return nil
}

// Reformat rewrites assistant content from a JSON array of drop entries
// to the "N yards: D inches" text the model is trained to emit.
// Records whose assistant content is already chart text are kept unchanged.
func Reformat(records []Record) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for i, rec := range records {
		if len(rec.Messages) < 2 {
			return nil, fmt.Errorf("record %d: expected user and assistant messages, got %d", i+1, len(rec.Messages))
		}

		content, err := chartText(rec.Messages[1].Content)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		messages := make([]Message, len(rec.Messages))
		copy(messages, rec.Messages)
		messages[1].Content = content
		out = append(out, Record{Messages: messages})
	}
	return out, nil
}

func chartText(content string) (string, error) {
	var chart models.DropChart
	jsonErr := json.Unmarshal([]byte(content), &chart)
	if jsonErr == nil {
		if len(chart) == 0 {
			return "", ErrEmptyChart
		}
		return ballistic.FormatChart(chart), nil
	}

	// Already in text form
	if chart, err := (ballistic.Decoder{Strict: true}).Decode(content); err == nil && len(chart) > 0 {
		return content, nil
	}

	return "", fmt.Errorf("assistant content is not a drop chart: %w", jsonErr)
}
