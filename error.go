package actionqueue

// RunError reports that one or more actions of a run raised an error.
type RunError struct {
	// Errs holds every per-action error, in settlement order.
	Errs []error
}

func (e *RunError) Error() string {
	var msg string
	for _, err := range e.Errs {
		msg = AppendText(msg, err.Error(), ", ")
	}
	return "one or more actions raised an error: " + msg
}
