package predictor

import (
	"context"

	"github.com/RMahshie/balcal/internal/ballistic"
	"github.com/RMahshie/balcal/internal/llm"
	"github.com/RMahshie/balcal/pkg/models"
	"github.com/rs/zerolog/log"
)

// Result holds every artifact of one prediction
type Result struct {
	Prompt string
	Raw    string
	Chart  models.DropChart
}

// Predictor encodes ballistic parameters, asks the model for a drop chart and decodes the answer
type Predictor struct {
	completer llm.Completer
	encoder   *ballistic.Encoder
	decoder   ballistic.Decoder
}

// New creates a predictor
func New(completer llm.Completer, encoder *ballistic.Encoder, decoder ballistic.Decoder) *Predictor {
	return &Predictor{
		completer: completer,
		encoder:   encoder,
		decoder:   decoder,
	}
}

// Encode builds the prompt for input without calling the model
func (p *Predictor) Encode(input models.BallisticInput) (string, error) {
	return p.encoder.Encode(input)
}

// Schema returns the prompt schema the predictor encodes with
func (p *Predictor) Schema() ballistic.Schema {
	return p.encoder.Schema()
}

// Predict runs the full encode, complete and decode pipeline.
// Errors are a *ballistic.MissingFieldError, a *llm.ServiceError or a *ballistic.ParseError.
func (p *Predictor) Predict(ctx context.Context, input models.BallisticInput) (*Result, error) {
	prompt, err := p.encoder.Encode(input)
	if err != nil {
		return nil, err
	}
	return p.PredictPrompt(ctx, prompt)
}

// PredictPrompt sends an already encoded prompt to the model and decodes the answer.
// On a decode failure the returned result still carries the prompt and raw text.
func (p *Predictor) PredictPrompt(ctx context.Context, prompt string) (*Result, error) {
	raw, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := &Result{Prompt: prompt, Raw: raw}
	chart, err := p.decoder.Decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse model output")
		return result, err
	}

	result.Chart = chart
	return result, nil
}
