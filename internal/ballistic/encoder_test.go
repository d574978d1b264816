package ballistic

import (
	"encoding/json"
	"testing"

	"github.com/RMahshie/balcal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullInput() models.BallisticInput {
	return models.BallisticInput{
		"caliber":               0.223,
		"bullet_weight":         55.0,
		"bullet_length":         0.9,
		"muzzle_velocity":       3240,
		"ballistic_coefficient": 0.255,
		"barrel_length":         20.0,
		"sight_height":          1.5,
		"twist_rate":            8.0,
		"temperature":           59,
		"altitude":              0,
		"humidity":              50,
		"pressure":              29.92,
		"wind_speed":            10,
		"distance_from_zero":    100,
	}
}

func TestEncode(t *testing.T) {
	prompt, err := Encode(fullInput())
	require.NoError(t, err)

	assert.Equal(t,
		"caliber: 0.223, bullet_weight: 55.0, bullet_length: 0.9, muzzle_velocity: 3240, "+
			"ballistic_coefficient: 0.255, barrel_length: 20.0, sight_height: 1.5, twist_rate: 8.0, "+
			"temperature: 59, altitude: 0, humidity: 50, pressure: 29.92, wind_speed: 10, distance_from_zero: 100",
		prompt)
}

func TestEncode_IgnoresExtraFields(t *testing.T) {
	input := fullInput()
	input["rifle_name"] = "varmint"

	withExtra, err := Encode(input)
	require.NoError(t, err)
	without, err := Encode(fullInput())
	require.NoError(t, err)

	assert.Equal(t, without, withExtra)
}

func TestEncode_MissingField(t *testing.T) {
	for _, field := range Full.Fields {
		t.Run(field, func(t *testing.T) {
			input := fullInput()
			delete(input, field)

			prompt, err := Encode(input)
			assert.Empty(t, prompt)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, field, missing.Field)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestEncode_ReportsFirstMissingFieldInSchemaOrder(t *testing.T) {
	input := fullInput()
	delete(input, "wind_speed")
	delete(input, "bullet_length")

	_, err := Encode(input)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "bullet_length", missing.Field)
}

func TestEncoder_CompactSchema(t *testing.T) {
	input := fullInput()
	delete(input, "bullet_length")
	delete(input, "barrel_length")
	delete(input, "twist_rate")
	delete(input, "wind_speed")

	prompt, err := NewEncoder(Compact).Encode(input)
	require.NoError(t, err)

	assert.Equal(t,
		"caliber: 0.223, bullet_weight: 55.0, muzzle_velocity: 3240, ballistic_coefficient: 0.255, "+
			"sight_height: 1.5, temperature: 59, altitude: 0, humidity: 50, pressure: 29.92, distance_from_zero: 100",
		prompt)

	_, err = NewEncoder(Full).Encode(input)
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "integral float", value: 55.0, want: "55.0"},
		{name: "fractional float", value: 0.223, want: "0.223"},
		{name: "negative float", value: -12.75, want: "-12.75"},
		{name: "float32", value: float32(0.223), want: "0.223"},
		{name: "int", value: 3700, want: "3700"},
		{name: "int64", value: int64(-40), want: "-40"},
		{name: "json number", value: json.Number("29.920"), want: "29.920"},
		{name: "string passes through", value: "6.5 Creedmoor", want: "6.5 Creedmoor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestSchemaByName(t *testing.T) {
	schema, err := SchemaByName("")
	require.NoError(t, err)
	assert.Equal(t, Full.Name, schema.Name)

	schema, err = SchemaByName("compact")
	require.NoError(t, err)
	assert.Len(t, schema.Fields, 10)

	_, err = SchemaByName("legacy")
	assert.Error(t, err)
}
