package tracker

// Status distinguishes the successful outcomes of an operation
type Status int

const (
	// StatusOK means the operation did what was asked
	StatusOK Status = iota
	// StatusNotFound means the requested expense does not exist. Nothing was changed.
	StatusNotFound
	// StatusEmpty means there was nothing to list or export
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful operation.
// Expected outcomes like deleting a missing expense are Results, not errors.
type Result struct {
	Status  Status
	Message string
	// Notice is informational, i.e. no budget is configured for the month
	Notice string
	// Warning is advisory, i.e. the month's budget was exceeded
	Warning string
}

func ok(message string) Result {
	return Result{Status: StatusOK, Message: message}
}
