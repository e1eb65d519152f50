package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenOverlap(t *testing.T) {
	record := Record{Question: "Which GIS Tools does he use daily?"}

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"no overlap", "xyzzy", 0},
		{"short tokens ignored", "which gis does he use", 2 * TokenWeight},
		{"substring containment", "toolset and daily standups", TokenWeight},
		{"punctuation kept on token", "daily", 0},
		{"input already lower-cased", "which tools", 2 * TokenWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenOverlap(tt.input, record))
		})
	}
}

func TestTokenOverlap_CountsRunesNotBytes(t *testing.T) {
	// "café" is four runes but five bytes.
	assert.Equal(t, TokenWeight, TokenOverlap("un café", Record{Question: "café"}))
	// "né?" is three runes but four bytes.
	assert.Zero(t, TokenOverlap("né?", Record{Question: "né?"}))
}

func TestTopicOverlap(t *testing.T) {
	taxonomy := Taxonomy{
		{Name: "gis", Keywords: []string{"gis", "mapping"}},
		{Name: "contact", Keywords: []string{"email", "contact"}},
		{Name: "education", Keywords: []string{"degree"}},
	}
	record := Record{
		Question: "How do I CONTACT him about Mapping work?",
		Answer:   "Send an email.",
	}

	assert.Equal(t, 0, TopicOverlap(taxonomy, 2, record, "xyzzy"))
	assert.Equal(t, 2, TopicOverlap(taxonomy, 2, record, "gis please"))
	assert.Equal(t, 4, TopicOverlap(taxonomy, 2, record, "gis please", "or an email"))
	assert.Equal(t, 0, TopicOverlap(taxonomy, 2, record, "which degree"))
	assert.Equal(t, 2, TopicOverlap(taxonomy, 1, record, "mapping", "contact"))
}

func TestIntents_Classify(t *testing.T) {
	intents := DefaultIntents()

	tests := []struct {
		input string
		want  string
	}{
		{"hello", IntentGreeting},
		{"hey there", IntentGreeting},
		{"this is a test", IntentGreeting},
		{"help", IntentHelp},
		{"what can you do", IntentHelp},
		{"tell me more", IntentHelp},
		{"hey, help me", IntentGreeting},
		{"xyzzy plugh", IntentDefault},
		{"", IntentDefault},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, intents.Resolve(tt.input).Name)

			resp := intents.Classify(tt.input)
			assert.NotEmpty(t, resp.Response)
			assert.Len(t, resp.Suggestions, 3)
		})
	}
}
