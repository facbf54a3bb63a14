package classifier

import "github.com/spec-kit/helpdesk-sla/internal/domain"

var (
	criticalKeywords = []string{"icu", "emergency", "power outage", "life threatening", "fire", "blood", "oxygen", "server down"}
	highKeywords     = []string{"urgent", "failure", "not working", "crash", "broken", "immediately"}
	mediumKeywords   = []string{"slow", "sometimes"}
)

// NewPriorityClassifier returns the tiered priority rules. Higher tiers are
// tested first so "urgent, it is slow" is high, not medium.
func NewPriorityClassifier() *KeywordClassifier {
	return NewKeywordClassifier(string(domain.TicketPriorityLow),
		Rule{Label: string(domain.TicketPriorityCritical), Keywords: criticalKeywords},
		Rule{Label: string(domain.TicketPriorityHigh), Keywords: highKeywords},
		Rule{Label: string(domain.TicketPriorityMedium), Keywords: mediumKeywords},
	)
}

var defaultPriority = NewPriorityClassifier()

// ClassifyPriority infers a ticket priority from free text.
func ClassifyPriority(text string) domain.TicketPriority {
	return domain.TicketPriority(defaultPriority.Classify(text))
}
