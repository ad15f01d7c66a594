package learning

import (
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/studypal/store"
)

// reviewIntervals are the forgetting-curve review offsets in days, keyed by
// mastery tier. The poor tier deliberately repeats day 1: a weak answer gets
// prompted twice the following day.
var reviewIntervals = map[store.MasteryLevel][]int{
	store.MasteryExcellent: {1, 3, 7, 15, 30},
	store.MasteryGood:      {1, 2, 5, 10, 20},
	store.MasteryFair:      {1, 2, 4, 7, 14},
	store.MasteryPoor:      {1, 1, 3, 5, 10},
}

// expandReviews derives the obligation batch for one graded event: one
// obligation per configured interval, in interval order, all initially
// incomplete.
func expandReviews(event *store.SessionEvent) []*store.ReviewObligation {
	intervals, ok := reviewIntervals[event.MasteryLevel]
	if !ok {
		intervals = reviewIntervals[store.MasteryPoor]
	}

	obligations := make([]*store.ReviewObligation, 0, len(intervals))
	for _, interval := range intervals {
		obligations = append(obligations, &store.ReviewObligation{
			UID:          shortuuid.New(),
			ReviewDate:   event.Timestamp.AddDate(0, 0, interval),
			Topic:        event.Topic,
			QuestionZH:   event.QuestionZH,
			QuestionEN:   event.QuestionEN,
			MasteryLevel: event.MasteryLevel,
			IntervalDays: interval,
			Completed:    false,
		})
	}
	return obligations
}

// sameDate reports whether two instants fall on the same calendar date.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dueOnOrBefore reports whether due falls on or before asOf at date
// granularity; time of day is ignored.
func dueOnOrBefore(due, asOf time.Time) bool {
	return sameDate(due, asOf) || due.Before(asOf)
}
