package faq

import "strings"

// Intent is one canned fallback branch.
type Intent struct {
	Name        string
	Triggers    []string
	Response    string
	Suggestions []string
}

func (i Intent) matches(input string) bool {
	for _, trigger := range i.Triggers {
		if strings.Contains(input, trigger) {
			return true
		}
	}
	return false
}

func (i Intent) reply() Response {
	return Response{
		Response:    i.Response,
		Suggestions: append([]string{}, i.Suggestions...),
	}
}

// Intents classifies utterances that no knowledge-base record answered.
// Branches are tried in order and Default answers everything else.
type Intents struct {
	Branches []Intent
	Default  Intent
}

// Classify returns the canned response of the first matching branch.
// input must already be lower-cased.
func (in Intents) Classify(input string) Response {
	return in.Resolve(input).reply()
}

// Resolve returns the intent that handles input.
func (in Intents) Resolve(input string) Intent {
	for _, branch := range in.Branches {
		if branch.matches(input) {
			return branch
		}
	}
	return in.Default
}

const (
	IntentGreeting = "greeting"
	IntentHelp     = "help"
	IntentDefault  = "default"
)

// DefaultIntents is the greeting, help and generic fallback set.
func DefaultIntents() Intents {
	return Intents{
		Branches: []Intent{
			{
				Name:     IntentGreeting,
				Triggers: []string{"hello", "hi", "hey"},
				Response: "Hello! 👋 I'm Ronit's AI assistant, here to help you learn about his work in geospatial development and software engineering. " +
					"Feel free to ask about his projects, skills, experience at Camptocamp, or anything else related to his professional background!",
				Suggestions: []string{
					"What is Ronit's current role and company?",
					"What technologies does he work with?",
					"What notable projects has he worked on?",
				},
			},
			{
				Name:     IntentHelp,
				Triggers: []string{"help", "what can", "tell me"},
				Response: "I can help you learn about Ronit Jadhav! Ask me about: 🗺️ His geospatial expertise (QGIS, OpenLayers, GIS) " +
					"💻 Programming skills (Python, JavaScript, TypeScript) 🏢 Current role at Camptocamp 🚀 Projects like Digipin, QGIS Hub Plugin " +
					"🎓 Education and career journey 📧 How to get in touch. What interests you most?",
				Suggestions: []string{
					"Who is Ronit Jadhav?",
					"What makes him unique as a developer?",
					"How can I contact Ronit?",
				},
			},
		},
		Default: Intent{
			Name: IntentDefault,
			Response: "I'm here to share information about Ronit Jadhav's professional background! You can ask me about his work at Camptocamp, " +
				"his expertise in geospatial technologies, specific projects he's worked on, his education, or how to contact him. What would you like to know? 🤔",
			Suggestions: []string{
				"Who is Ronit Jadhav?",
				"What is Ronit's current role and company?",
				"What technologies does he work with?",
			},
		},
	}
}

// DefaultSuggestions is returned when no record relates to the conversation.
var DefaultSuggestions = []string{
	"What is Ronit's current role and company?",
	"What notable projects has he worked on?",
	"How can I contact Ronit?",
}
