package faq

import (
	"errors"
	"strings"
)

var ErrEmptyKnowledgeBase = errors.New("knowledge base has no records")

// Engine matches utterances against a fixed knowledge base. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	records     []Record
	matching    Taxonomy
	suggestions Taxonomy
	intents     Intents
}

type Option func(*Engine)

// WithMatchingTaxonomy replaces the topic table used by BestMatch.
func WithMatchingTaxonomy(t Taxonomy) Option {
	return func(e *Engine) { e.matching = t }
}

// WithSuggestionTaxonomy replaces the topic table used by Suggest.
func WithSuggestionTaxonomy(t Taxonomy) Option {
	return func(e *Engine) { e.suggestions = t }
}

func WithIntents(in Intents) Option {
	return func(e *Engine) { e.intents = in }
}

func NewEngine(records []Record, opts ...Option) (*Engine, error) {
	if len(records) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	e := &Engine{
		records:     make([]Record, len(records)),
		matching:    DefaultMatchingTaxonomy(),
		suggestions: DefaultSuggestionTaxonomy(),
		intents:     DefaultIntents(),
	}
	for i, r := range records {
		r.Suggestions = append([]string{}, r.Suggestions...)
		e.records[i] = r
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Records returns the number of knowledge-base entries.
func (e *Engine) Records() int {
	return len(e.records)
}

// Score is the total relevance of record to a lower-cased input.
func (e *Engine) Score(input string, record Record) int {
	return TokenOverlap(input, record) + TopicOverlap(e.matching, TopicWeight, record, input)
}

// BestMatch scans every record and keeps the first one with the strictly
// highest score.
func (e *Engine) BestMatch(input string) Match {
	lower := strings.ToLower(input)

	var best Match
	for i := range e.records {
		score := e.Score(lower, e.records[i])
		if score > best.Score {
			best = Match{Record: &e.records[i], Score: score}
		}
	}
	return best
}

// Respond answers input from the knowledge base, or from the intent
// fallback when no record is a confident match.
func (e *Engine) Respond(input string) Response {
	resp, _ := e.Explain(input)
	return resp
}

// Resolution describes how Respond produced its answer.
type Resolution struct {
	Match  Match
	Intent string
}

// Explain is Respond plus the match and intent that produced the response.
// Intent is empty when a record answered.
func (e *Engine) Explain(input string) (Response, Resolution) {
	match := e.BestMatch(input)
	if match.Confident() {
		return Response{
			Response:    match.Record.Answer,
			Suggestions: append([]string{}, match.Record.Suggestions...),
		}, Resolution{Match: match}
	}

	intent := e.intents.Resolve(strings.ToLower(input))
	return intent.reply(), Resolution{Match: match, Intent: intent.Name}
}

// Suggest picks up to MaxSuggestions follow-up questions from every record
// that shares a topic with the conversation formed by input and a generated
// answer.
func (e *Engine) Suggest(input, answer string) []string {
	lowerInput := strings.ToLower(input)
	lowerAnswer := strings.ToLower(answer)

	seen := make(map[string]struct{})
	picked := make([]string, 0, MaxSuggestions)
	candidates := 0

	for _, record := range e.records {
		if !record.HasSuggestions() {
			continue
		}
		if TopicOverlap(e.suggestions, 1, record, lowerInput, lowerAnswer) == 0 {
			continue
		}
		candidates++

		for _, s := range record.Suggestions {
			if len(picked) == MaxSuggestions {
				return picked
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			picked = append(picked, s)
		}
	}

	if candidates == 0 {
		return append([]string{}, DefaultSuggestions...)
	}
	return picked
}
