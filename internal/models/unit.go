package models

import "time"

// KnowledgeUnit is an atom of learnable content ("primitive"). Units are
// authored upstream and treated as read-only by the scheduling core.
type KnowledgeUnit struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	UnitType   string    `json:"unit_type"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MasteryCriterion is a named, weighted sub-skill of a KnowledgeUnit tied to
// a stage. Weight is a positive real used for weighted averages.
type MasteryCriterion struct {
	ID               int64     `json:"id"`
	UnitID           int64     `json:"unit_id"`
	Stage            Stage     `json:"stage"`
	Weight           float64   `json:"weight"`
	MasteryThreshold float64   `json:"mastery_threshold"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
}

// Question is a reviewable item attached to a criterion.
type Question struct {
	ID          int64     `json:"id"`
	CriterionID int64     `json:"criterion_id"`
	Prompt      string    `json:"prompt"`
	CreatedAt   time.Time `json:"created_at"`
}

// CriterionWithQuestions bundles a criterion with its questions and the
// user's mastery state, as needed by question selection.
type CriterionWithQuestions struct {
	MasteryCriterion
	IsMastered bool       `json:"is_mastered"`
	Questions  []Question `json:"questions"`
}
