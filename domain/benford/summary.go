package benford

import (
	"time"

	"gobenford/domain/core"
)

// Summary is the persisted record of one analysis, successful or not.
type Summary struct {
	ID           core.AnalysisID `json:"id" db:"id"`
	Filename     string          `json:"filename" db:"filename"`
	Valid        bool            `json:"valid" db:"valid"`
	Observations int             `json:"observations" db:"observations"`
	Statistic    float64         `json:"chi_square_statistic" db:"statistic"`
	PValue       float64         `json:"p_value" db:"p_value"`
	Rejected     bool            `json:"rejected" db:"rejected"`
	ErrorMessage string          `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Summarize builds the history record for an outcome.
func Summarize(id core.AnalysisID, filename string, outcome Outcome, at time.Time) *Summary {
	s := &Summary{ID: id, Filename: filename, CreatedAt: at}
	switch o := outcome.(type) {
	case Success:
		s.Valid = true
		s.Observations = o.Result.Observations
		s.Statistic = o.Result.Verdict.Statistic
		s.PValue = o.Result.Verdict.PValue
		s.Rejected = o.Result.Verdict.Rejected
	case Failure:
		s.ErrorMessage = o.Message
	}
	return s
}
