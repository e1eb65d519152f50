package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-assistant/backend/internal/faq"
)

func TestParseKnowledgeBase(t *testing.T) {
	kb, err := ParseKnowledgeBase([]byte(`{
		"context": "ctx",
		"personality": "friendly",
		"expertise_areas": ["GIS"],
		"faqs": [
			{"id": "a", "question": "Q1", "answer": "A1", "suggestions": ["S1"]},
			{"id": "b", "question": "Q2", "answer": "A2"}
		]
	}`))
	require.NoError(t, err)

	require.Len(t, kb.FAQs, 2)
	assert.Equal(t, []string{"S1"}, kb.FAQs[0].Suggestions)
	assert.NotNil(t, kb.FAQs[1].Suggestions)
	assert.Empty(t, kb.FAQs[1].Suggestions)
	assert.Equal(t, []string{"GIS"}, kb.ExpertiseAreas)
}

func TestParseKnowledgeBase_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"malformed json", `{"faqs": [`, nil},
		{"no faqs", `{"faqs": []}`, ErrNoRecords},
		{"missing faqs key", `{"context": "x"}`, ErrNoRecords},
		{"missing answer", `{"faqs": [{"id": "a", "question": "Q"}]}`, nil},
		{"missing id", `{"faqs": [{"question": "Q", "answer": "A"}]}`, nil},
		{"duplicate id", `{"faqs": [{"id": "a", "question": "Q", "answer": "A"}, {"id": "a", "question": "Q2", "answer": "A2"}]}`, ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKnowledgeBase([]byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadKnowledgeBase_WrapsPath(t *testing.T) {
	_, err := LoadKnowledgeBase(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKnowledgeBase_Prompt(t *testing.T) {
	kb := &KnowledgeBase{
		Context:        "You are an assistant.",
		Personality:    "Warm",
		ExpertiseAreas: []string{"GIS", "Python"},
		FAQs: []faq.Record{
			{ID: "a", Question: "Q1", Answer: "A1", Suggestions: []string{"S1", "S2"}},
			{ID: "b", Question: "Q2", Answer: "A2", Suggestions: []string{}},
		},
	}

	prompt := kb.Prompt("hello there")

	assert.Contains(t, prompt, "You are an assistant.")
	assert.Contains(t, prompt, "PERSONALITY: Warm")
	assert.Contains(t, prompt, "EXPERTISE AREAS: GIS, Python")
	assert.Contains(t, prompt, "Q: Q1\nA: A1\nSuggestions: S1 | S2")
	assert.Contains(t, prompt, "Q: Q2\nA: A2\nSuggestions: N/A")
	assert.Contains(t, prompt, `USER QUESTION: "hello there"`)
	assert.Contains(t, prompt, "max 150 words")
	assert.Contains(t, prompt, "10. Always maintain enthusiasm for geospatial technology and open-source solutions")
}

func TestParseTaxonomy(t *testing.T) {
	doc, err := ParseTaxonomy([]byte(`
matching:
  - name: gis
    keywords: [GIS, Mapping]
`))
	require.NoError(t, err)

	assert.Equal(t, faq.Taxonomy{{Name: "gis", Keywords: []string{"gis", "mapping"}}}, doc.Matching)
	assert.Equal(t, faq.DefaultSuggestionTaxonomy(), doc.Suggestions)
}

func TestParseTaxonomy_Defaults(t *testing.T) {
	doc, err := ParseTaxonomy(nil)
	require.NoError(t, err)

	assert.Equal(t, faq.DefaultMatchingTaxonomy(), doc.Matching)
	assert.Equal(t, faq.DefaultSuggestionTaxonomy(), doc.Suggestions)
}

func TestParseTaxonomy_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed":     "matching: [",
		"no name":       "matching:\n  - keywords: [a]\n",
		"no keywords":   "suggestions:\n  - name: x\n",
		"empty keyword": "matching:\n  - name: x\n    keywords: [\"  \"]\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTaxonomy([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestBundledDocuments(t *testing.T) {
	kb, err := LoadKnowledgeBase(filepath.Join("..", "..", "data", "faq-data.json"))
	require.NoError(t, err)
	tax, err := LoadTaxonomy(filepath.Join("..", "..", "data", "taxonomy.yaml"))
	require.NoError(t, err)

	assert.Equal(t, faq.DefaultMatchingTaxonomy(), tax.Matching)
	assert.Equal(t, faq.DefaultSuggestionTaxonomy(), tax.Suggestions)

	engine, err := NewEngine(kb, tax)
	require.NoError(t, err)
	assert.Equal(t, len(kb.FAQs), engine.Records())

	_, res := engine.Explain("What is Ronit's current role and company?")
	require.NotNil(t, res.Match.Record)
	assert.Equal(t, "current-role", res.Match.Record.ID)

	_, res = engine.Explain("hi")
	assert.Equal(t, faq.IntentGreeting, res.Intent)

	_, res = engine.Explain("xyzzy plugh")
	assert.Equal(t, faq.IntentDefault, res.Intent)

	got := engine.Suggest("tell me about his projects", "He also does GIS consulting.")
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), faq.MaxSuggestions)
}
