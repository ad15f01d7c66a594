package knowledge

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// TopicID derives the stable short identifier for a topic name: the first
// 8 hex chars of md5. Collision-tolerant at single-learner scale; the width
// is fixed by the persisted document format.
func TopicID(topicName string) string {
	sum := md5.Sum([]byte(topicName))
	return hex.EncodeToString(sum[:])[:8]
}

// QuestionHash derives the content digest used for exact-duplicate
// detection: the first 16 hex chars of md5 over the trimmed question text.
func QuestionHash(questionText string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(questionText)))
	return hex.EncodeToString(sum[:])[:16]
}
