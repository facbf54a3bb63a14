package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		text string
		want domain.TicketPriority
	}{
		{"server down, need help", domain.TicketPriorityCritical},
		{"it's urgent, system crash", domain.TicketPriorityHigh},
		{"printer is slow", domain.TicketPriorityMedium},
		{"please update my address", domain.TicketPriorityLow},
		{"", domain.TicketPriorityLow},
		{"EMERGENCY in ward 3", domain.TicketPriorityCritical},
		{"Broken chair", domain.TicketPriorityHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyPriority(tc.text), tc.text)
	}
}

func TestClassifyPriorityCriticalWinsOverLowerTiers(t *testing.T) {
	for _, critical := range criticalKeywords {
		for _, lower := range append(append([]string{}, highKeywords...), mediumKeywords...) {
			text := lower + " and " + critical
			assert.Equal(t, domain.TicketPriorityCritical, ClassifyPriority(text), text)
		}
	}
}

func TestClassifyPriorityHighWinsOverMedium(t *testing.T) {
	assert.Equal(t, domain.TicketPriorityHigh, ClassifyPriority("sometimes slow, now not working"))
}

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		title, description string
		want               string
	}{
		{"", "server down, need help", domain.CategoryITSupport},
		{"Wifi drops", "internet unreachable on floor 2", domain.CategoryNetworking},
		{"Lights", "no power in lobby", domain.CategoryElectrical},
		{"Leak", "water under the sink", domain.CategoryPlumbing},
		{"Ward", "patient monitor alarm", domain.CategoryMedical},
		{"Lobby", "camera offline after theft", domain.CategorySecurity},
		{"Question", "how do I change my address", domain.CategoryGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyCategory(tc.title, tc.description), tc.description)
	}
}

func TestCategoryPrecedenceIsRuleOrder(t *testing.T) {
	// Networking is listed before IT Support.
	assert.Equal(t, domain.CategoryNetworking, ClassifyCategory("server", "network switch"))
}

func TestKeywordClassifierIsReplaceable(t *testing.T) {
	var c Classifier = Func(func(string) string { return "fixed" })
	assert.Equal(t, "fixed", c.Classify("anything"))

	c = NewKeywordClassifier("none", Rule{Label: "hit", Keywords: []string{"  NeEdLe "}})
	assert.Equal(t, "hit", c.Classify("haystack with needle"))
	assert.Equal(t, "none", c.Classify("haystack"))
}
