package model

import "fmt"

// Weights is the operator-tunable share each check group contributes to the
// overall score. It is a value type: the orchestrator snapshots it once per
// analysis, so a concurrent weight update never affects an in-flight task.
type Weights struct {
	Technical      int `json:"technical"`
	Content        int `json:"content"`
	StructuredData int `json:"structured_data"`
	Performance    int `json:"performance"`
	Social         int `json:"social"`
}

// DefaultWeights returns the stock weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Technical:      30,
		Content:        25,
		StructuredData: 15,
		Performance:    15,
		Social:         15,
	}
}

// Total sums all group weights.
func (w Weights) Total() int {
	return w.Technical + w.Content + w.StructuredData + w.Performance + w.Social
}

// Validate checks that every weight is non-negative and the total is 100.
func (w Weights) Validate() error {
	for name, v := range map[string]int{
		"technical":       w.Technical,
		"content":         w.Content,
		"structured_data": w.StructuredData,
		"performance":     w.Performance,
		"social":          w.Social,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %d", name, v)
		}
	}
	if total := w.Total(); total != 100 {
		return fmt.Errorf("weights must sum to 100, got %d", total)
	}
	return nil
}
