package model

// Priority buckets a check item's remediation urgency. High-priority items
// that lose points surface as warnings on the task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// CheckItem is a single SEO rule result within a group.
type CheckItem struct {
	// ID is a short stable identifier for the rule (e.g. "title-length").
	ID string `json:"id"`

	// Label is a human-readable name for the rule.
	Label string `json:"label"`

	// Weight is the maximum attainable points for this item; Score is the
	// points actually awarded, 0..Weight.
	Weight int `json:"weight"`
	Score  int `json:"score"`

	// Evidence contains opaque structured data for diagnostics (observed
	// values that triggered the result).
	Evidence map[string]any `json:"evidence,omitempty"`

	// Advice is remediation text shown when the item loses points.
	Advice string `json:"advice,omitempty"`

	Priority Priority `json:"priority"`
}

// CheckGroup is one category of SEO rule results. Group weights sum to 100
// across a full evaluation; Score must equal the sum of its items' scores.
type CheckGroup struct {
	Name   string      `json:"name"`
	Weight int         `json:"weight"`
	Score  int         `json:"score"`
	Items  []CheckItem `json:"items"`
}

// MaxScore returns the maximum attainable points over the group's items.
func (g CheckGroup) MaxScore() int {
	total := 0
	for _, item := range g.Items {
		total += item.Weight
	}
	return total
}
