package mastery

import "github.com/tomaz/masterly/internal/models"

// Thresholds maps the closed set of threshold profiles to numeric gates.
type Thresholds struct {
	Survey     float64
	Proficient float64
	Expert     float64
}

// DefaultThresholds returns the production gating values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Survey:     0.6,
		Proficient: 0.8,
		Expert:     0.95,
	}
}

// For resolves a profile to its numeric threshold. Unknown profiles fall
// back to PROFICIENT.
func (t Thresholds) For(profile models.ThresholdProfile) float64 {
	switch profile {
	case models.ProfileSurvey:
		return t.Survey
	case models.ProfileExpert:
		return t.Expert
	default:
		return t.Proficient
	}
}
