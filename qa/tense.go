package qa

import "strings"

// Tense selects the verbal mode used when phrasing an option.
type Tense string

const (
	// TenseBase is the descriptive, simple-past phrasing ("was", "hits").
	TenseBase Tense = "base"
	// TenseFuture is the predictive phrasing ("will ...").
	TenseFuture Tense = "future"
	// TenseConditional is the counterfactual phrasing ("would ...").
	TenseConditional Tense = "conditional"
)

// validTenses maps accepted tense strings, including common aliases.
var validTenses = map[string]Tense{
	"base":        TenseBase,
	"past":        TenseBase,
	"future":      TenseFuture,
	"will":        TenseFuture,
	"conditional": TenseConditional,
	"would":       TenseConditional,
}

// ParseTense converts a string value to a Tense, defaulting to TenseBase
// for unknown or empty input.
func ParseTense(value string) Tense {
	if t, ok := validTenses[strings.ToLower(value)]; ok {
		return t
	}
	return TenseBase
}
