package models

// ProgressionStatus reports whether a unit can advance to its next stage
// and the evidence behind the answer.
type ProgressionStatus struct {
	UnitID           int64   `json:"unit_id"`
	Stage            Stage   `json:"stage"`
	CanProgress      bool    `json:"can_progress"`
	AtMaxStage       bool    `json:"at_max_stage"`
	WeightedMastery  float64 `json:"weighted_mastery"`
	Threshold        float64 `json:"threshold"`
	TotalCriteria    int     `json:"total_criteria"`
	MasteredCriteria int     `json:"mastered_criteria"`
}

// ProgressionResult is the outcome of a progression attempt. Attempts that
// cannot advance are no-op results, not errors.
type ProgressionResult struct {
	UnitID        int64  `json:"unit_id"`
	PreviousStage Stage  `json:"previous_stage"`
	Stage         Stage  `json:"stage"`
	Advanced      bool   `json:"advanced"`
	Message       string `json:"message"`
}
