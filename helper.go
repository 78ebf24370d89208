package actionqueue

// AppendText joins value to source with a separator, dropping the
// separator when either side is empty.
func AppendText(source, value, separator string) string {
	if source == "" {
		return value
	}
	if value == "" {
		return source
	}
	return source + separator + value
}

// actionWeight returns the action's progress weight; actions without the
// capability, or with a non-positive weight, count as 1 to keep the
// aggregate math finite.
func actionWeight(action Action) float64 {
	if w, ok := action.(WeightedAction); ok {
		if weight := w.ProgressWeight(); weight > 0 {
			return weight
		}
	}
	return 1
}

// actionProgress returns the action's reported progress clamped to [0, 1],
// 0 for actions without the capability.
func actionProgress(action Action) float64 {
	p, ok := action.(ProgressReporter)
	if !ok {
		return 0
	}
	progress := p.Progress()
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
