package models

import (
	"time"
)

// Prediction statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// BallisticParams carries the prompt fields of a prediction request.
// Fields are optional at the transport layer so the encoder reports what is missing.
type BallisticParams struct {
	Caliber              *Number `json:"caliber,omitempty" doc:"Bullet diameter in inches"`
	BulletWeight         *Number `json:"bullet_weight,omitempty" doc:"Bullet weight in grains"`
	BulletLength         *Number `json:"bullet_length,omitempty" doc:"Bullet length in inches"`
	MuzzleVelocity       *Number `json:"muzzle_velocity,omitempty" doc:"Muzzle velocity in feet per second"`
	BallisticCoefficient *Number `json:"ballistic_coefficient,omitempty" doc:"G1 ballistic coefficient"`
	BarrelLength         *Number `json:"barrel_length,omitempty" doc:"Barrel length in inches"`
	SightHeight          *Number `json:"sight_height,omitempty" doc:"Sight height over bore in inches"`
	TwistRate            *Number `json:"twist_rate,omitempty" doc:"Barrel twist rate, inches per turn"`
	Temperature          *Number `json:"temperature,omitempty" doc:"Ambient temperature in Fahrenheit"`
	Altitude             *Number `json:"altitude,omitempty" doc:"Altitude in feet"`
	Humidity             *Number `json:"humidity,omitempty" doc:"Relative humidity in percent"`
	Pressure             *Number `json:"pressure,omitempty" doc:"Barometric pressure in inHg"`
	WindSpeed            *Number `json:"wind_speed,omitempty" doc:"Wind speed in mph"`
	DistanceFromZero     *Number `json:"distance_from_zero,omitempty" doc:"Zero range in yards"`
}

// Input converts the set parameters to a BallisticInput; unset fields are left out
func (p BallisticParams) Input() BallisticInput {
	input := BallisticInput{}
	fields := []struct {
		name  string
		value *Number
	}{
		{"caliber", p.Caliber},
		{"bullet_weight", p.BulletWeight},
		{"bullet_length", p.BulletLength},
		{"muzzle_velocity", p.MuzzleVelocity},
		{"ballistic_coefficient", p.BallisticCoefficient},
		{"barrel_length", p.BarrelLength},
		{"sight_height", p.SightHeight},
		{"twist_rate", p.TwistRate},
		{"temperature", p.Temperature},
		{"altitude", p.Altitude},
		{"humidity", p.Humidity},
		{"pressure", p.Pressure},
		{"wind_speed", p.WindSpeed},
		{"distance_from_zero", p.DistanceFromZero},
	}
	for _, f := range fields {
		if f.value != nil {
			input[f.name] = f.value.JSONNumber()
		}
	}
	return input
}

// CreatePredictionRequest represents a request to predict a drop chart
type CreatePredictionRequest struct {
	Sync bool `query:"sync" doc:"Run the prediction before responding"`
	Body BallisticParams
}

// PredictionResponseBody is the body of prediction responses
type PredictionResponseBody struct {
	ID          string     `json:"id" doc:"Prediction ID"`
	Status      string     `json:"status" enum:"pending,processing,completed,failed" doc:"Prediction status"`
	Progress    int        `json:"progress" minimum:"0" maximum:"100" doc:"Prediction progress percentage"`
	Message     string     `json:"message,omitempty" doc:"Human-readable status message"`
	Model       string     `json:"model" doc:"Model queried for the chart"`
	Prompt      string     `json:"prompt" doc:"Encoded prompt sent to the model"`
	RawResponse *string    `json:"raw_response,omitempty" doc:"Unparsed model output"`
	Chart       DropChart  `json:"chart,omitempty" doc:"Predicted drop chart"`
	Error       *string    `json:"error,omitempty" doc:"Failure reason"`
	CreatedAt   time.Time  `json:"created_at" doc:"Prediction creation timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" doc:"Prediction completion timestamp"`
}

// CreatePredictionResponse represents the response from creating a prediction
type CreatePredictionResponse struct {
	Body PredictionResponseBody
}

// GetPredictionRequest represents a request to get a prediction
type GetPredictionRequest struct {
	ID string `path:"id" doc:"Prediction ID"`
}

// GetPredictionResponse represents a stored prediction
type GetPredictionResponse struct {
	Body PredictionResponseBody
}

// Prediction represents the core prediction entity (for internal use)
type Prediction struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	Model       string     `json:"model"`
	Schema      string     `json:"schema"`
	Prompt      string     `json:"prompt"`
	RawResponse *string    `json:"raw_response,omitempty"`
	Chart       DropChart  `json:"chart,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
