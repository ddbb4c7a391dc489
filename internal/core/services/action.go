package services

import (
	"fmt"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// actionTemplates maps actionable intents to their in-app flow.
var actionTemplates = map[domain.Intent]domain.ActionGuidance{
	domain.IntentDamageReport: {
		Message:  "检测到破损问题，请【上传照片申请补货】。",
		DeepLink: "app://after-sales?category=perishable",
	},
	domain.IntentMissingTask: {
		Message:  "检测到您可能漏派任务，是否【申请紧急补派】？",
		DeepLink: "app://task/emergency-apply",
	},
}

// ActionTemplate returns the guidance for an action intent.
func ActionTemplate(intent domain.Intent) (domain.ActionGuidance, error) {
	g, ok := actionTemplates[intent]
	if !ok {
		return domain.ActionGuidance{}, fmt.Errorf("%w: no action template for %s", domain.ErrUnmappedIntent, intent)
	}
	return g, nil
}
