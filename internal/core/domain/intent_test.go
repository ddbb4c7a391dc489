package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		label    string
		expected Intent
	}{
		{"order_status", IntentOrderStatus},
		{"  Policy_Query ", IntentPolicyQuery},
		{"other", IntentOther},
		{"operation_guide", IntentUnknown},
		{"", IntentUnknown},
		{"unknown", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIntent(tt.label))
		})
	}
}

func TestIntent_IsActionable(t *testing.T) {
	assert.True(t, IntentDamageReport.IsActionable())
	assert.False(t, IntentOther.IsActionable())
	assert.False(t, IntentUnknown.IsActionable())
	assert.False(t, Intent("sensitive_blocked").IsActionable())
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		intent   Intent
		expected Category
	}{
		{IntentOrderStatus, CategoryQuery},
		{IntentPolicyQuery, CategoryQuery},
		{IntentCommissionRule, CategoryQuery},
		{IntentDamageReport, CategoryAction},
		{IntentMissingTask, CategoryAction},
		{IntentCompensationClaim, CategoryIncident},
		{IntentUserComplaint, CategoryIncident},
		{IntentMultiIssue, CategoryIncident},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			c, ok := CategoryOf(tt.intent)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, c)
		})
	}

	for _, unmapped := range []Intent{IntentOther, IntentUnknown} {
		_, ok := CategoryOf(unmapped)
		assert.False(t, ok, "intent %s should not be routed", unmapped)
	}
}

func TestIntent_UsesPolicyRetrieval(t *testing.T) {
	assert.True(t, IntentPolicyQuery.UsesPolicyRetrieval())
	assert.True(t, IntentCommissionRule.UsesPolicyRetrieval())
	assert.False(t, IntentOrderStatus.UsesPolicyRetrieval())
}
