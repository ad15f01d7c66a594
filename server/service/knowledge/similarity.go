package knowledge

// Jaccard calculates the Jaccard index of two keyword sets: intersection
// size over union size, in [0, 1]. Either set being empty scores 0.0; this
// is a defined result, not an error. Symmetric in its arguments.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var intersection int
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
