package learning

import (
	"github.com/hrygo/studypal/store"
)

// ClassifyMastery maps a 0-10 recall score to its mastery tier. Boundary
// checks run in strict descending order; each boundary is inclusive on the
// lower side. Total over all float inputs; range validation is the callers'
// job (see Service.RecordSession).
func ClassifyMastery(score float64) store.MasteryLevel {
	switch {
	case score >= 9:
		return store.MasteryExcellent
	case score >= 7:
		return store.MasteryGood
	case score >= 5:
		return store.MasteryFair
	default:
		return store.MasteryPoor
	}
}
