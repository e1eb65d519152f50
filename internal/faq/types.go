package faq

// Record is one question/answer entry of the knowledge base.
type Record struct {
	ID          string   `json:"id" validate:"required"`
	Question    string   `json:"question" validate:"required"`
	Answer      string   `json:"answer" validate:"required"`
	Suggestions []string `json:"suggestions"`
}

// HasSuggestions reports whether the record carries follow-up questions.
func (r Record) HasSuggestions() bool {
	return len(r.Suggestions) > 0
}

// Topic groups the keywords that signal one subject area.
type Topic struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Taxonomy is an ordered topic table.
type Taxonomy []Topic

// Match is the outcome of a best-match scan. Record is nil when the
// knowledge base produced no positive score.
type Match struct {
	Record *Record
	Score  int
}

// Confident reports whether the match clears the confidence threshold.
func (m Match) Confident() bool {
	return m.Record != nil && m.Score > ConfidenceThreshold
}

// Response is the payload returned to the chat client.
type Response struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

const (
	TokenWeight         = 3
	TopicWeight         = 2
	ConfidenceThreshold = 1
	// Question tokens must be longer than this to count.
	MinTokenLength = 3
	MaxSuggestions = 3
)
