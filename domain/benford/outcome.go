package benford

// Outcome is either a Success or a Failure.
type Outcome interface {
	Valid() bool
	outcome()
}

// Success carries a fully populated result.
type Success struct {
	Result AnalysisResult
}

func (Success) Valid() bool { return true }
func (Success) outcome()    {}

// Failure carries the user-facing description of why a file was rejected.
// Err keeps the underlying error for logging.
type Failure struct {
	Message string
	Err     error
}

func (Failure) Valid() bool { return false }
func (Failure) outcome()    {}
