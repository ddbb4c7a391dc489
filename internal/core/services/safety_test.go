package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func TestSafetyGate_Screen(t *testing.T) {
	gate := NewSafetyGate(domain.DefaultSettings().Pipeline.SensitiveTerms)

	tests := []struct {
		name        string
		text        string
		wantBlocked bool
		wantMasked  string
	}{
		{"clean", "ORD123 生鲜烂了怎么处理？", false, "ORD123 生鲜烂了怎么处理？"},
		{"sensitive term", "我要起诉你们", true, "我要起诉你们"},
		{"sensitive and phone", "我要赔偿，电话13812345678", true, "我要赔偿，电话1XXXXXXXXX"},
		{"phone only", "联系我 15900001111 谢谢", false, "联系我 1XXXXXXXXX 谢谢"},
		{"address", "送到京100080附近", false, "送到XX地址附近"},
		{"landline untouched", "号码 12012345678", false, "号码 12012345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked, masked := gate.Screen(tt.text)
			assert.Equal(t, tt.wantBlocked, blocked)
			assert.Equal(t, tt.wantMasked, masked)
		})
	}
}

func TestSafetyGate_BlankTermsIgnored(t *testing.T) {
	gate := NewSafetyGate([]string{"", "  ", "罚款"})

	assert.False(t, gate.ContainsSensitive("普通问题"))
	assert.True(t, gate.ContainsSensitive("会被罚款吗"))
}

func TestSafetyGate_CompensationWordingNotBlocked(t *testing.T) {
	gate := NewSafetyGate(domain.DefaultSettings().Pipeline.SensitiveTerms)

	assert.False(t, gate.ContainsSensitive("货物丢了能赔吗"))
}

func TestMask_Deterministic(t *testing.T) {
	text := "手机13912345678，地址粤123456"
	assert.Equal(t, Mask(text), Mask(text))
	assert.Equal(t, "手机1XXXXXXXXX，地址XX地址", Mask(text))
}
