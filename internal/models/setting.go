package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting keys understood by the service.
const (
	SettingRandomEventProbability = "random_event_probability"
	SettingScoreRules             = "score_rules"
)

// DefaultRandomEventProbability applies when the stored value is absent or
// unparsable.
const DefaultRandomEventProbability = 0.2

// Setting is a key/value configuration row. Values are stored as JSON so a
// single table carries both scalar settings and the score-rules map.
type Setting struct {
	Key       string         `gorm:"primaryKey;size:64" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DefaultScoreRules maps each action tag to its base score delta. Seeded at
// startup when the row is missing; callers read these via the settings API.
func DefaultScoreRules() map[Action]float64 {
	return map[Action]float64{
		ActionArrive:          1,
		ActionAbsent:          -2,
		ActionRepeatCorrect:   1,
		ActionRepeatWrong:     0,
		ActionAnswerExcellent: 3,
		ActionAnswerGood:      2,
		ActionAnswerAverage:   1,
		ActionAnswerPoor:      -1,
	}
}
