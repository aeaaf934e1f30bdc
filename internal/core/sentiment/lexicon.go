package sentiment

import (
	"strings"
	"unicode"
)

// LexiconName is the method name of the lexicon classifier.
const LexiconName = "lexicon"

// negationWindow is how many tokens after a negator are flipped.
const negationWindow = 3

var (
	positiveWords = wordSet(
		"amazing", "awesome", "beautiful", "best", "brilliant", "enjoy", "enjoyed",
		"excellent", "fantastic", "fast", "good", "great", "happy", "impressive",
		"like", "liked", "love", "loved", "lovely", "loves", "nice", "perfect",
		"perfectly", "pleased", "recommend", "recommended", "reliable", "satisfied",
		"solid", "superb", "wonderful",
	)
	negativeWords = wordSet(
		"angry", "annoying", "awful", "bad", "broken", "cheap", "defective",
		"disappointed", "disappointing", "disappointment", "fail", "failed", "fails",
		"flimsy", "hate", "hated", "horrible", "junk", "poor", "problem", "problems",
		"refund", "sad", "slow", "terrible", "ugly", "unreliable", "useless", "waste",
		"worst",
	)
	negators = wordSet("hardly", "never", "no", "not", "nothing", "without")
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Lexicon is a word-list classifier. It counts positive and negative words,
// flipping those that follow a negator, and turns the counts into scores.
// Mixed signals pull the result toward neutral.
type Lexicon struct{}

// NewLexicon returns the lexicon classifier.
func NewLexicon() Lexicon {
	return Lexicon{}
}

func (Lexicon) Name() string { return LexiconName }

// Analyze classifies text.
func (Lexicon) Analyze(text string) Analysis {
	var pos, neg float64
	negateFor := 0

	for _, tok := range tokenize(text) {
		if isNegator(tok) {
			negateFor = negationWindow
			continue
		}

		_, isPos := positiveWords[tok]
		_, isNeg := negativeWords[tok]
		if negateFor > 0 {
			isPos, isNeg = isNeg, isPos
			negateFor--
		}

		switch {
		case isPos:
			pos++
		case isNeg:
			neg++
		}
	}

	neutral := 0.5 + min(pos, neg)
	total := pos + neg + neutral
	scores := Scores{
		Negative: neg / total,
		Neutral:  neutral / total,
		Positive: pos / total,
	}

	label, confidence := scores.Top()
	return Analysis{
		Sentiment:  label,
		Confidence: confidence,
		Scores:     scores,
	}
}

func isNegator(tok string) bool {
	if _, ok := negators[tok]; ok {
		return true
	}
	return strings.HasSuffix(tok, "n't")
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
