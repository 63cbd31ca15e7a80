package models

import "github.com/dmitrijs2005/pharmafhe/internal/common"

// Draft is the raw user input of a submission. Numeric fields are kept as
// typed so that a failed submission can be retried without re-entry.
type Draft struct {
	Name        string
	Value       string
	Score       string
	Description string
}

// Reset clears the draft after a confirmed submission.
func (d *Draft) Reset() {
	*d = Draft{}
}

// IsEmpty reports whether nothing has been entered yet.
func (d *Draft) IsEmpty() bool {
	return *d == Draft{}
}

// ValueInt is the field to encrypt. Unparseable input becomes 0.
func (d *Draft) ValueInt() int64 {
	return common.ParseIntOrZero(d.Value)
}

// ScoreInt is the public score. Unparseable input becomes 0.
func (d *Draft) ScoreInt() int64 {
	return common.ParseIntOrZero(d.Score)
}
