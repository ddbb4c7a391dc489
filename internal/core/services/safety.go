package services

import (
	"regexp"
	"strings"
)

var (
	// mobilePattern matches mainland mobile numbers.
	mobilePattern = regexp.MustCompile(`1[3-9]\d{9}`)

	// addressPattern matches a province abbreviation followed by a house
	// or postal number.
	addressPattern = regexp.MustCompile(`[京津沪渝冀豫云辽黑湘皖鲁新苏浙赣鄂桂甘晋蒙陕吉闽贵粤青藏川宁琼使领]\d{5,6}`)
)

// SafetyGate blocks questions containing sensitive terms and masks
// personal data before anything else sees the text.
type SafetyGate struct {
	terms []string
}

// NewSafetyGate creates a gate for the given sensitive terms.
// Blank terms are ignored.
func NewSafetyGate(terms []string) *SafetyGate {
	kept := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return &SafetyGate{terms: kept}
}

// Screen reports whether the text must be blocked and returns the text
// with personal data masked. Masking runs whether or not it is blocked.
func (g *SafetyGate) Screen(text string) (blocked bool, masked string) {
	return g.ContainsSensitive(text), Mask(text)
}

// ContainsSensitive reports whether any sensitive term occurs in the text.
func (g *SafetyGate) ContainsSensitive(text string) bool {
	for _, term := range g.terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Mask replaces mobile numbers and address fragments with placeholders.
func Mask(text string) string {
	text = mobilePattern.ReplaceAllString(text, "1XXXXXXXXX")
	return addressPattern.ReplaceAllString(text, "XX地址")
}

// containsAny reports whether any of the terms occurs in text.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}
