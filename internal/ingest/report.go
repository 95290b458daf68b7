package ingest

import (
	"encoding/json"
)

// Status is what happened to one document during a run.
type Status string

const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped"
	StatusInvalid  Status = "invalid"
	StatusFailed   Status = "failed"
)

// Outcome is the result for a single document.
type Outcome struct {
	Document  string `json:"document"`
	Status    Status `json:"status"`
	Routes    int    `json:"routes,omitempty"`
	Waypoints int    `json:"waypoints,omitempty"`
	Err       error  `json:"-"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(o)}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// Report lists the outcome of every document a run looked at, in the order
// they were processed.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns how many documents ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Find returns the outcome recorded for a document name.
func (r *Report) Find(document string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Document == document {
			return o, true
		}
	}
	return Outcome{}, false
}

// Totals is the per-status summary of a report.
func (r *Report) Totals() map[Status]int {
	return map[Status]int{
		StatusImported: r.Count(StatusImported),
		StatusSkipped:  r.Count(StatusSkipped),
		StatusInvalid:  r.Count(StatusInvalid),
		StatusFailed:   r.Count(StatusFailed),
	}
}
