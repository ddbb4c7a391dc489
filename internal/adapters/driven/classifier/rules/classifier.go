// Package rules provides an offline intent classifier based on keyword
// heuristics. It needs no model and is deterministic, which makes it the
// default backend and the one used in tests.
package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IntentClassifier = (*Classifier)(nil)

// Confidence levels reported by the heuristics.
const (
	ConfidenceSingle    = 0.95
	ConfidenceDominant  = 0.88
	ConfidenceAmbiguous = 0.60
	ConfidenceNoMatch   = 0.30
)

// Keyword weights.
const (
	strongWeight = 1.0
	weakWeight   = 0.5
)

var orderIDPattern = regexp.MustCompile(`(?i)ORD[A-Z]*[0-9]`)

// rule lists the cues for one intent. Strong cues name the topic; weak
// cues are generic question phrasing.
type rule struct {
	intent domain.Intent
	strong []string
	weak   []string
}

// rules are listed in tie-break priority order.
var rules = []rule{
	{
		intent: domain.IntentCompensationClaim,
		strong: []string{"赔付", "赔钱", "索赔", "要赔", "能赔", "补偿", "理赔"},
	},
	{
		intent: domain.IntentUserComplaint,
		strong: []string{"投诉", "辱骂", "骂我", "态度差", "差评", "威胁"},
	},
	{
		intent: domain.IntentMissingTask,
		strong: []string{"漏派", "少派", "没派", "漏单", "补派", "任务没"},
	},
	{
		intent: domain.IntentDamageReport,
		strong: []string{"破损", "烂了", "坏了", "压坏", "漏液", "变质", "摔碎"},
	},
	{
		intent: domain.IntentCommissionRule,
		strong: []string{"佣金", "提成", "结算", "收入", "单价"},
	},
	{
		intent: domain.IntentPolicyQuery,
		strong: []string{"政策", "规定", "规则", "台风", "停运", "暴雨", "标准"},
		weak:   []string{"怎么处理", "怎么办", "可以吗", "能不能"},
	},
	{
		intent: domain.IntentOrderStatus,
		strong: []string{"到哪", "物流", "订单状态", "送达", "签收", "配送进度"},
	},
}

// issueIntents are the intents that together make a multi-issue report.
var issueIntents = map[domain.Intent]bool{
	domain.IntentCompensationClaim: true,
	domain.IntentUserComplaint:     true,
	domain.IntentMissingTask:       true,
	domain.IntentDamageReport:      true,
}

// Classifier labels questions by keyword cues.
type Classifier struct{}

// New creates a rules classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify scores every intent and reports the best one.
//
//   - no cue: other, low confidence
//   - cues for two or more issue intents: multi_issue
//   - a single intent: that intent, high confidence
//   - a clear winner: that intent, just above the default gate
//   - a tie: the higher-priority intent, below the default gate
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClassificationResult{}, err
	}

	scores := Score(text)
	if len(scores) == 0 {
		if orderIDPattern.MatchString(text) {
			return domain.ClassificationResult{Intent: domain.IntentOrderStatus, Confidence: ConfidenceDominant}, nil
		}
		return domain.ClassificationResult{Intent: domain.IntentOther, Confidence: ConfidenceNoMatch}, nil
	}

	issues := 0
	for _, s := range scores {
		if issueIntents[s.Intent] {
			issues++
		}
	}
	if issues >= 2 {
		return domain.ClassificationResult{Intent: domain.IntentMultiIssue, Confidence: ConfidenceDominant}, nil
	}

	best := scores[0]
	switch {
	case len(scores) == 1:
		return domain.ClassificationResult{Intent: best.Intent, Confidence: ConfidenceSingle}, nil
	case best.Score > scores[1].Score:
		return domain.ClassificationResult{Intent: best.Intent, Confidence: ConfidenceDominant}, nil
	default:
		return domain.ClassificationResult{Intent: best.Intent, Confidence: ConfidenceAmbiguous}, nil
	}
}

// IntentScore is the weighted cue count of one intent.
type IntentScore struct {
	Intent domain.Intent
	Score  float64
}

// Score returns the intents with at least one cue, best first.
// Equal scores keep rule priority order.
func Score(text string) []IntentScore {
	lower := strings.ToLower(text)

	var scores []IntentScore
	for _, r := range rules {
		var s float64
		for _, kw := range r.strong {
			if strings.Contains(lower, kw) {
				s += strongWeight
			}
		}
		for _, kw := range r.weak {
			if strings.Contains(lower, kw) {
				s += weakWeight
			}
		}
		if s > 0 {
			scores = append(scores, IntentScore{Intent: r.intent, Score: s})
		}
	}

	// Insertion sort keeps the priority order among equal scores.
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].Score > scores[j-1].Score; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	return scores
}
