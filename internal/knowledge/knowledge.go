package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/pkg/logger"
)

var (
	ErrDuplicateID = errors.New("duplicate faq id")
	ErrNoRecords   = errors.New("knowledge base has no faqs")
)

// KnowledgeBase is the static FAQ document plus the persona used to prompt
// the external generator.
type KnowledgeBase struct {
	FAQs           []faq.Record `json:"faqs" validate:"required,min=1,dive"`
	Context        string       `json:"context"`
	Personality    string       `json:"personality"`
	ExpertiseAreas []string     `json:"expertise_areas"`
}

var validate = validator.New()

// LoadKnowledgeBase reads and validates the FAQ document at path.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}

	kb, err := ParseKnowledgeBase(data)
	if err != nil {
		return nil, fmt.Errorf("invalid knowledge base %s: %w", path, err)
	}

	logger.Info("Knowledge base loaded",
		zap.String("path", path),
		zap.Int("faqs", len(kb.FAQs)),
	)

	return kb, nil
}

func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}

	if len(kb.FAQs) == 0 {
		return nil, ErrNoRecords
	}

	if err := validate.Struct(&kb); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	seen := make(map[string]struct{}, len(kb.FAQs))
	for i := range kb.FAQs {
		record := &kb.FAQs[i]
		if _, dup := seen[record.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
		}
		seen[record.ID] = struct{}{}

		if record.Suggestions == nil {
			record.Suggestions = []string{}
		}
	}

	return &kb, nil
}

// Prompt renders the instruction sent to the external generator for message.
func (kb *KnowledgeBase) Prompt(message string) string {
	var b strings.Builder

	b.WriteString(kb.Context)
	b.WriteString("\n\nPERSONALITY: ")
	b.WriteString(kb.Personality)
	b.WriteString("\n\nEXPERTISE AREAS: ")
	b.WriteString(strings.Join(kb.ExpertiseAreas, ", "))
	b.WriteString("\n\nCOMPREHENSIVE FAQ KNOWLEDGE:\n")

	for i, record := range kb.FAQs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		suggestions := "N/A"
		if record.HasSuggestions() {
			suggestions = strings.Join(record.Suggestions, " | ")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\nSuggestions: %s", record.Question, record.Answer, suggestions)
	}

	fmt.Fprintf(&b, "\n\nUSER QUESTION: %q\n\n", message)
	b.WriteString(promptInstructions)

	return b.String()
}

const promptInstructions = `INSTRUCTIONS:
1. Answer based on the FAQ knowledge above
2. Use the personality guidelines to maintain consistent tone
3. If the question relates to any expertise area, provide detailed, helpful information
4. For technical questions, explain concepts clearly but don't oversimplify
5. If the question is unrelated to the professional profile, politely redirect
6. Keep responses conversational but professional
7. Highlight relevant expertise areas when appropriate
8. If asked about specific projects, mention technologies used
9. For general questions, encourage further specific questions
10. Always maintain enthusiasm for geospatial technology and open-source solutions

Provide a helpful, accurate response (max 150 words). Do not include any formatting labels in your response.`
