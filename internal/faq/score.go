package faq

import (
	"strings"
	"unicode/utf8"
)

// TokenOverlap scores the significant words of the record's question that
// appear verbatim inside input. input must already be lower-cased.
func TokenOverlap(input string, record Record) int {
	score := 0
	for _, word := range strings.Fields(strings.ToLower(record.Question)) {
		if utf8.RuneCountInString(word) > MinTokenLength && strings.Contains(input, word) {
			score += TokenWeight
		}
	}
	return score
}

// TopicOverlap adds weight for every topic that is mentioned both in one of
// texts and in the record's question or answer. texts must already be
// lower-cased.
func TopicOverlap(taxonomy Taxonomy, weight int, record Record, texts ...string) int {
	question := strings.ToLower(record.Question)
	answer := strings.ToLower(record.Answer)

	score := 0
	for _, topic := range taxonomy {
		if !mentionsAny(topic.Keywords, texts...) {
			continue
		}
		if mentionsAny(topic.Keywords, question, answer) {
			score += weight
		}
	}
	return score
}

func mentionsAny(keywords []string, texts ...string) bool {
	for _, keyword := range keywords {
		for _, text := range texts {
			if strings.Contains(text, keyword) {
				return true
			}
		}
	}
	return false
}
