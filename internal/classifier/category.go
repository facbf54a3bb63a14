package classifier

import "github.com/spec-kit/helpdesk-sla/internal/domain"

// NewCategoryClassifier returns the topic rules in precedence order.
func NewCategoryClassifier() *KeywordClassifier {
	return NewKeywordClassifier(domain.CategoryGeneral,
		Rule{Label: domain.CategoryNetworking, Keywords: []string{"wifi", "network", "internet", "router"}},
		Rule{Label: domain.CategoryElectrical, Keywords: []string{"electric", "power", "light", "generator", "outage"}},
		Rule{Label: domain.CategoryPlumbing, Keywords: []string{"pipe", "water", "leak", "toilet"}},
		Rule{Label: domain.CategoryITSupport, Keywords: []string{"computer", "system", "software", "server", "laptop", "printer"}},
		Rule{Label: domain.CategoryMedical, Keywords: []string{"icu", "patient", "doctor", "medical"}},
		Rule{Label: domain.CategorySecurity, Keywords: []string{"security", "theft", "camera"}},
	)
}

var defaultCategory = NewCategoryClassifier()

// ClassifyCategory labels a ticket by topic using title and description.
func ClassifyCategory(title, description string) string {
	return defaultCategory.Classify(CategoryText(title, description))
}

// CategoryText joins the fields a category classifier looks at.
func CategoryText(title, description string) string {
	return title + " " + description
}
