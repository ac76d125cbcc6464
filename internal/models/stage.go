package models

// Stage is a step on the knowledge-acquisition ladder.
// Progression is strictly UNDERSTAND -> USE -> EXPLORE; EXPLORE is terminal.
type Stage string

const (
	StageUnderstand Stage = "UNDERSTAND"
	StageUse        Stage = "USE"
	StageExplore    Stage = "EXPLORE"
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageUnderstand, StageUse, StageExplore:
		return true
	}
	return false
}

// Next returns the stage after s. ok is false when s is terminal or unknown.
func (s Stage) Next() (next Stage, ok bool) {
	switch s {
	case StageUnderstand:
		return StageUse, true
	case StageUse:
		return StageExplore, true
	}
	return "", false
}

// Rank orders the stages for "at or above" comparisons. Unknown stages rank
// below UNDERSTAND.
func (s Stage) Rank() int {
	switch s {
	case StageUnderstand:
		return 1
	case StageUse:
		return 2
	case StageExplore:
		return 3
	}
	return 0
}
