package learning

import (
	"math"
	"sort"

	"github.com/hrygo/studypal/store"
)

// acceptableScore is the threshold at and above which an answer counts as
// correct, and below which a topic mean marks the topic as weak.
const acceptableScore = 7

// recomputeStatistics rebuilds the whole rollup from the event log. The
// rollup is a cache: it is replaced wholesale on every write, never
// incrementally maintained.
func recomputeStatistics(events []*store.SessionEvent) *store.Statistics {
	stats := &store.Statistics{
		WeakTopics: []*store.WeakTopic{},
	}
	if len(events) == 0 {
		return stats
	}

	var sum float64
	topicScores := make(map[string][]float64)
	topicOrder := []string{}
	for _, event := range events {
		sum += event.Score
		if event.Score >= acceptableScore {
			stats.CorrectAnswers++
		}
		if _, ok := topicScores[event.Topic]; !ok {
			topicOrder = append(topicOrder, event.Topic)
		}
		topicScores[event.Topic] = append(topicScores[event.Topic], event.Score)
	}

	stats.TotalQuestions = len(events)
	stats.AverageScore = roundOneDecimal(sum / float64(len(events)))

	for _, topic := range topicOrder {
		scores := topicScores[topic]
		var topicSum float64
		for _, score := range scores {
			topicSum += score
		}
		mean := topicSum / float64(len(scores))
		if mean < acceptableScore {
			stats.WeakTopics = append(stats.WeakTopics, &store.WeakTopic{
				Topic:        topic,
				AverageScore: roundOneDecimal(mean),
				Attempts:     len(scores),
			})
		}
	}

	// Weakest topics first.
	sort.SliceStable(stats.WeakTopics, func(i, j int) bool {
		return stats.WeakTopics[i].AverageScore < stats.WeakTopics[j].AverageScore
	})
	return stats
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
