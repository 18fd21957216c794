package profiles

import "time"

// Uniform spreads purchases evenly over the day and week.
type Uniform struct{}

// NewUniform creates a new Uniform profile. The zone is irrelevant.
func NewUniform(*time.Location) Profile {
	return Uniform{}
}

func (Uniform) Name() string {
	return "uniform"
}

func (Uniform) Description() string {
	return "Constant activity, no daily or weekly pattern"
}

func (Uniform) ActivityLevel(time.Time) float64 {
	return 1.0
}
