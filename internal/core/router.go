// ABOUTME: Router classifies queries as small talk or knowledge questions
// ABOUTME: Greetings skip retrieval entirely and go straight to generation
package core

import "strings"

// QueryKind tags the routing decision for an incoming query.
type QueryKind int

const (
	// QueryKindKnowledge routes through retrieval and context assembly.
	QueryKindKnowledge QueryKind = iota
	// QueryKindGreeting skips retrieval; the query is social, not a
	// question about the knowledge base.
	QueryKindGreeting
)

// greetingPhrases are matched against the whole trimmed, lowercased,
// punctuation-stripped query. Exact-phrase matching only: a knowledge
// question that merely contains one of these words (for example "thanks"
// mid-sentence) is never misrouted.
var greetingPhrases = map[string]struct{}{
	"hi":             {},
	"hello":          {},
	"hey":            {},
	"hi there":       {},
	"hello there":    {},
	"good morning":   {},
	"good afternoon": {},
	"good evening":   {},
	"how are you":    {},
	"thanks":         {},
	"thank you":      {},
	"bye":            {},
	"goodbye":        {},
	"hola":           {},
	"bonjour":        {},
	"ciao":           {},
}

// Router decides whether a query needs retrieval. Stateless.
type Router struct{}

// NewRouter creates a Router.
func NewRouter() *Router {
	return &Router{}
}

// Classify tags the query. Only an exact greeting phrase (after trimming,
// lowercasing, and stripping terminal punctuation) bypasses retrieval;
// everything else is a knowledge query.
func (r *Router) Classify(query string) QueryKind {
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = strings.TrimRight(normalized, "!.?,")
	normalized = strings.TrimSpace(normalized)

	if _, ok := greetingPhrases[normalized]; ok {
		return QueryKindGreeting
	}
	return QueryKindKnowledge
}
