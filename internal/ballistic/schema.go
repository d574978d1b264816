package ballistic

import "fmt"

// Schema is the ordered set of fields a prompt must carry
type Schema struct {
	Name   string
	Fields []string
}

// Full is the canonical prompt schema used for prediction
var Full = Schema{
	Name: "full",
	Fields: []string{
		"caliber",
		"bullet_weight",
		"bullet_length",
		"muzzle_velocity",
		"ballistic_coefficient",
		"barrel_length",
		"sight_height",
		"twist_rate",
		"temperature",
		"altitude",
		"humidity",
		"pressure",
		"wind_speed",
		"distance_from_zero",
	},
}

// Compact is the reduced schema of the original generated datasets. It omits
// bullet_length, barrel_length, twist_rate and wind_speed.
var Compact = Schema{
	Name: "compact",
	Fields: []string{
		"caliber",
		"bullet_weight",
		"muzzle_velocity",
		"ballistic_coefficient",
		"sight_height",
		"temperature",
		"altitude",
		"humidity",
		"pressure",
		"distance_from_zero",
	},
}

// SchemaByName returns the schema registered under name
func SchemaByName(name string) (Schema, error) {
	switch name {
	case "", Full.Name:
		return Full, nil
	case Compact.Name:
		return Compact, nil
	default:
		return Schema{}, fmt.Errorf("unknown prompt schema: %s", name)
	}
}
