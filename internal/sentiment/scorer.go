package sentiment

import "strings"

const (
	// MinScore and MaxScore bound every sentiment score.
	MinScore = -3
	MaxScore = 3
)

var positiveWords = map[string]struct{}{
	"amazing": {}, "awesome": {}, "clear": {}, "confident": {},
	"cool": {}, "easy": {}, "excellent": {}, "fast": {},
	"good": {}, "great": {}, "helpful": {}, "insightful": {},
	"love": {}, "nice": {}, "smooth": {}, "useful": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "boring": {}, "confusing": {}, "hard": {},
	"issue": {}, "lag": {}, "slow": {}, "pain": {},
	"poor": {}, "rough": {}, "unclear": {}, "stuck": {},
	"tough": {}, "waste": {},
}

// Scorer scores comments by keyword matching.
type Scorer struct{}

// NewScorer creates a keyword scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns an integer in [MinScore, MaxScore] for the given comment.
// Empty or whitespace-only comments score 0.
func (s *Scorer) Score(comment string) int {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return 0
	}

	tokens := strings.FieldsFunc(strings.ToLower(comment), isSeparator)

	score := 0
	for _, token := range tokens {
		if _, ok := positiveWords[token]; ok {
			score++
		}
		if _, ok := negativeWords[token]; ok {
			score--
		}
	}

	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', ',', '.', '!', '?', ';', ':', '/', '\\', '\t', '\n', '\r':
		return true
	}
	return false
}
