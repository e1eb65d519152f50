package knowledge

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/pkg/logger"
)

var ErrInvalidTopic = errors.New("invalid topic")

// TaxonomyDocument holds the two topic tables: one for best-match scoring and
// one for ranking follow-up suggestions.
type TaxonomyDocument struct {
	Matching    faq.Taxonomy `yaml:"matching"`
	Suggestions faq.Taxonomy `yaml:"suggestions"`
}

// LoadTaxonomy reads the taxonomy document at path. An empty path, or a
// table missing from the document, falls back to the built-in tables.
func LoadTaxonomy(path string) (*TaxonomyDocument, error) {
	if path == "" {
		logger.Info("No taxonomy document configured, using built-in tables")
		return ParseTaxonomy(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy %s: %w", path, err)
	}

	doc, err := ParseTaxonomy(data)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy %s: %w", path, err)
	}

	logger.Info("Taxonomy loaded",
		zap.String("path", path),
		zap.Int("matching_topics", len(doc.Matching)),
		zap.Int("suggestion_topics", len(doc.Suggestions)),
	)

	return doc, nil
}

func ParseTaxonomy(data []byte) (*TaxonomyDocument, error) {
	var doc TaxonomyDocument
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode: %w", err)
		}
	}

	if doc.Matching == nil {
		doc.Matching = faq.DefaultMatchingTaxonomy()
	}
	if doc.Suggestions == nil {
		doc.Suggestions = faq.DefaultSuggestionTaxonomy()
	}

	var err error
	if doc.Matching, err = normalize(doc.Matching); err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}
	if doc.Suggestions, err = normalize(doc.Suggestions); err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}

	return &doc, nil
}

func normalize(t faq.Taxonomy) (faq.Taxonomy, error) {
	out := make(faq.Taxonomy, 0, len(t))
	for i, topic := range t {
		name := strings.TrimSpace(topic.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: topic %d has no name", ErrInvalidTopic, i)
		}
		if len(topic.Keywords) == 0 {
			return nil, fmt.Errorf("%w: topic %q has no keywords", ErrInvalidTopic, name)
		}

		keywords := make([]string, 0, len(topic.Keywords))
		for _, k := range topic.Keywords {
			k = strings.ToLower(k)
			if strings.TrimSpace(k) == "" {
				return nil, fmt.Errorf("%w: topic %q has an empty keyword", ErrInvalidTopic, name)
			}
			keywords = append(keywords, k)
		}
		out = append(out, faq.Topic{Name: name, Keywords: keywords})
	}
	return out, nil
}

// EngineOptions wires both tables into a faq.Engine.
func (d *TaxonomyDocument) EngineOptions() []faq.Option {
	return []faq.Option{
		faq.WithMatchingTaxonomy(d.Matching),
		faq.WithSuggestionTaxonomy(d.Suggestions),
	}
}

// NewEngine builds the relevance engine from both static documents.
func NewEngine(kb *KnowledgeBase, tax *TaxonomyDocument) (*faq.Engine, error) {
	return faq.NewEngine(kb.FAQs, tax.EngineOptions()...)
}
