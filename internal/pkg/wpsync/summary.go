package wpsync

import "github.com/google/uuid"

// Summary aggregates the outcome of a bulk sync run. Per-item failures are
// recorded and never abort the batch.
type Summary struct {
	RunID   string   `json:"run_id"`
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  int      `json:"errors"`
	Messages []string `json:"messages"`
}

func newSummary() *Summary {
	return &Summary{RunID: uuid.NewString()}
}

func (s *Summary) record(outcome outcome) {
	s.Total++
	switch outcome {
	case outcomeCreated:
		s.Created++
	case outcomeUpdated:
		s.Updated++
	case outcomeSkipped:
		s.Skipped++
	}
}

func (s *Summary) recordError(msg string) {
	s.Total++
	s.Errors++
	s.Messages = append(s.Messages, msg)
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCreated
	outcomeUpdated
)
