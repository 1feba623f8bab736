package dto

// StatsOverviewResponse aggregates class-wide statistics.
type StatsOverviewResponse struct {
	TotalStudents  int64             `json:"total_students"`
	TotalCalls     int64             `json:"total_calls"`
	ArrivedCalls   int64             `json:"arrived_calls"`
	CorrectAnswers int64             `json:"correct_answers"`
	ArrivalRate    float64           `json:"arrival_rate"`
	AverageScore   float64           `json:"average_score"`
	MaxScore       float64           `json:"max_score"`
	MinScore       float64           `json:"min_score"`
	ActionCounts   map[string]int64  `json:"action_counts"`
	TopStudents    []StudentResponse `json:"top_students"`
	CacheHit       bool              `json:"cache_hit"`
}
