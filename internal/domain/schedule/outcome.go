// internal/domain/schedule/outcome.go
package schedule

// Status is the result of a single publish attempt.
type Status string

const (
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Outcome records what happened to one published segment. Failed outcomes carry the error.
type Outcome struct {
	Segment Segment
	Status  Status
	Err     error
}

// Detail returns the error text of a failed outcome, or "".
func (o Outcome) Detail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// CountFailed returns how many outcomes failed.
func CountFailed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			n++
		}
	}
	return n
}
