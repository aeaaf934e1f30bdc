package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexicon_Analyze(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I love this product! It's amazing and works perfectly.", LabelPositive},
		{"This is the worst product I've ever bought. Terrible quality.", LabelNegative},
		{"The product is okay, nothing special but it works.", LabelNeutral},
		{"Absolutely fantastic! Highly recommended!", LabelPositive},
		{"Not good at all, very disappointed.", LabelNegative},
		{"Loved it!", LabelPositive},
		{"It isn't bad", LabelPositive},
		{"Great design but terrible battery", LabelNeutral},
		{"", LabelNeutral},
	}

	lex := NewLexicon()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := lex.Analyze(tt.text)
			assert.Equal(t, tt.want, got.Sentiment)

			sum := got.Scores.Negative + got.Scores.Neutral + got.Scores.Positive
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestLexicon_Confidence(t *testing.T) {
	got := NewLexicon().Analyze("Loved it!")
	assert.InDelta(t, 2.0/3.0, got.Confidence, 1e-9)
	assert.InDelta(t, got.Scores.Positive, got.Confidence, 1e-9)

	got = NewLexicon().Analyze("no opinion words here")
	assert.Equal(t, LabelNeutral, got.Sentiment)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
}

func TestLexicon_Name(t *testing.T) {
	var c Classifier = NewLexicon()
	assert.Equal(t, "lexicon", c.Name())
}

func TestScores_Top(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   string
	}{
		{"positive wins", Scores{Negative: 0.1, Neutral: 0.2, Positive: 0.7}, LabelPositive},
		{"negative wins", Scores{Negative: 0.6, Neutral: 0.3, Positive: 0.1}, LabelNegative},
		{"neutral wins", Scores{Negative: 0.2, Neutral: 0.6, Positive: 0.2}, LabelNeutral},
		{"tie prefers neutral", Scores{Negative: 0, Neutral: 0.5, Positive: 0.5}, LabelNeutral},
		{"tie between polar prefers positive", Scores{Negative: 0.45, Neutral: 0.1, Positive: 0.45}, LabelPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := tt.scores.Top()
			assert.Equal(t, tt.want, got)
		})
	}
}
