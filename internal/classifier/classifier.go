// Package classifier labels free text with deterministic keyword rules.
//
// Callers depend on the Classifier interface so a statistical model can
// replace the keyword rules without changing them.
package classifier

import "strings"

// Classifier maps free text to a label.
type Classifier interface {
	Classify(text string) string
}

// Rule assigns Label when any of Keywords occurs in the text.
type Rule struct {
	Label    string
	Keywords []string
}

// KeywordClassifier applies rules in order; the first matching rule wins.
type KeywordClassifier struct {
	rules    []Rule
	fallback string
}

// NewKeywordClassifier builds a classifier. Keywords are matched
// case-insensitively as substrings.
func NewKeywordClassifier(fallback string, rules ...Rule) *KeywordClassifier {
	normalized := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, Rule{Label: rule.Label, Keywords: keywords})
	}
	return &KeywordClassifier{rules: normalized, fallback: fallback}
}

// Classify returns the label of the first matching rule, or the fallback.
func (k *KeywordClassifier) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range k.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Label
			}
		}
	}
	return k.fallback
}

// Func adapts a plain function to Classifier.
type Func func(text string) string

func (f Func) Classify(text string) string { return f(text) }
