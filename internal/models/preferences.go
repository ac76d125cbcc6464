package models

// ThresholdProfile gates stage progression. A closed enumeration mapped to a
// numeric threshold through configuration, never free-form strings.
type ThresholdProfile string

const (
	ProfileSurvey     ThresholdProfile = "SURVEY"
	ProfileProficient ThresholdProfile = "PROFICIENT"
	ProfileExpert     ThresholdProfile = "EXPERT"
)

// Valid reports whether p is a known profile.
func (p ThresholdProfile) Valid() bool {
	switch p {
	case ProfileSurvey, ProfileProficient, ProfileExpert:
		return true
	}
	return false
}

// BucketPreferences is the per-user capacity configuration for daily task
// allocation.
type BucketPreferences struct {
	UserID           int64            `json:"user_id"`
	CriticalSize     int              `json:"critical_size"`
	CoreSize         int              `json:"core_size"`
	PlusSize         int              `json:"plus_size"`
	AddMoreIncrement int              `json:"add_more_increment"`
	MaxDailyLimit    int              `json:"max_daily_limit"`
	Threshold        ThresholdProfile `json:"threshold"`
}

// DefaultBucketPreferences returns the preferences created for a user on
// first use.
func DefaultBucketPreferences(userID int64) BucketPreferences {
	return BucketPreferences{
		UserID:           userID,
		CriticalSize:     10,
		CoreSize:         15,
		PlusSize:         5,
		AddMoreIncrement: 5,
		MaxDailyLimit:    50,
		Threshold:        ProfileProficient,
	}
}
