package models

// Action enumerates roll-call outcomes.
type Action string

const (
	ActionArrive          Action = "arrive"
	ActionAbsent          Action = "absent"
	ActionRepeatCorrect   Action = "repeat-correct"
	ActionRepeatWrong     Action = "repeat-wrong"
	ActionAnswerExcellent Action = "answer-excellent"
	ActionAnswerGood      Action = "answer-good"
	ActionAnswerAverage   Action = "answer-average"
	ActionAnswerPoor      Action = "answer-poor"
)

// CounterColumns lists the student counter columns an action increments in
// addition to total_calls, which every action increments.
var CounterColumns = map[Action][]string{
	ActionArrive:          {"arrived_calls"},
	ActionAbsent:          {},
	ActionRepeatCorrect:   {"correct_answers"},
	ActionRepeatWrong:     {},
	ActionAnswerExcellent: {"correct_answers"},
	ActionAnswerGood:      {"correct_answers"},
	ActionAnswerAverage:   {"correct_answers"},
	ActionAnswerPoor:      {"correct_answers"},
}

// Valid reports whether the action is one of the known tags.
func (a Action) Valid() bool {
	_, ok := CounterColumns[a]
	return ok
}

// Actions returns every known action tag.
func Actions() []Action {
	return []Action{
		ActionArrive,
		ActionAbsent,
		ActionRepeatCorrect,
		ActionRepeatWrong,
		ActionAnswerExcellent,
		ActionAnswerGood,
		ActionAnswerAverage,
		ActionAnswerPoor,
	}
}
