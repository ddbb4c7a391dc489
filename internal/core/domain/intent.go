package domain

import "strings"

// Intent is a classifier label. The set is fixed and only extended by
// redeploying both the classifier and the routing table.
type Intent string

// Enumerated intents.
const (
	IntentOrderStatus       Intent = "order_status"
	IntentPolicyQuery       Intent = "policy_query"
	IntentCommissionRule    Intent = "commission_rule"
	IntentDamageReport      Intent = "damage_report"
	IntentMissingTask       Intent = "missing_task"
	IntentCompensationClaim Intent = "compensation_claim"
	IntentUserComplaint     Intent = "user_complaint"
	IntentMultiIssue        Intent = "multi_issue"
	IntentOther             Intent = "other"

	// IntentUnknown is reserved for classifier failures and labels
	// outside the enumeration.
	IntentUnknown Intent = "unknown"
)

// Intents returns the enumerated intents in a stable order.
func Intents() []Intent {
	return []Intent{
		IntentOrderStatus,
		IntentPolicyQuery,
		IntentCommissionRule,
		IntentDamageReport,
		IntentMissingTask,
		IntentCompensationClaim,
		IntentUserComplaint,
		IntentMultiIssue,
		IntentOther,
	}
}

// ParseIntent maps a raw label to an Intent. Labels outside the
// enumeration become IntentUnknown.
func ParseIntent(label string) Intent {
	intent := Intent(strings.ToLower(strings.TrimSpace(label)))
	if intent.IsValid() {
		return intent
	}
	return IntentUnknown
}

// IsValid returns true if the intent is part of the enumeration.
func (i Intent) IsValid() bool {
	for _, known := range Intents() {
		if i == known {
			return true
		}
	}
	return false
}

// IsActionable returns false for intents that always go to a human.
func (i Intent) IsActionable() bool {
	return i != IntentOther && i != IntentUnknown && i.IsValid()
}

// UsesPolicyRetrieval returns true for intents answered from the policy corpus.
func (i Intent) UsesPolicyRetrieval() bool {
	return i == IntentPolicyQuery || i == IntentCommissionRule
}

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// Category is the routing bucket an intent is dispatched to.
type Category string

// Routing categories.
const (
	CategoryQuery         Category = "query"
	CategoryAction        Category = "action"
	CategoryIncident      Category = "incident"
	CategoryHumanFallback Category = "human_fallback"
)

// intentCategories is the static intent to category routing table.
var intentCategories = map[Intent]Category{
	IntentOrderStatus:       CategoryQuery,
	IntentPolicyQuery:       CategoryQuery,
	IntentCommissionRule:    CategoryQuery,
	IntentDamageReport:      CategoryAction,
	IntentMissingTask:       CategoryAction,
	IntentCompensationClaim: CategoryIncident,
	IntentUserComplaint:     CategoryIncident,
	IntentMultiIssue:        CategoryIncident,
}

// CategoryOf looks the intent up in the routing table.
// The second return value is false for unmapped intents.
func CategoryOf(i Intent) (Category, bool) {
	c, ok := intentCategories[i]
	return c, ok
}
