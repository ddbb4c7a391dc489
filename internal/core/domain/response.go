package domain

// ResponseKind tags the variant of a Response.
type ResponseKind string

// Response kinds.
const (
	KindAnswer         ResponseKind = "answer"
	KindActionGuidance ResponseKind = "action_guidance"
	KindIncident       ResponseKind = "incident"
	KindHumanFallback  ResponseKind = "human_fallback"
)

// Response is the closed set of terminal pipeline outcomes.
// Only the types in this package implement it.
type Response interface {
	// Kind returns the variant tag.
	Kind() ResponseKind

	// Text returns the user-facing message.
	Text() string

	// Automated reports whether the response was produced without a human.
	Automated() bool

	sealed()
}

// AnswerSource records where an automated answer came from.
type AnswerSource string

// Answer sources.
const (
	SourceOrderTool     AnswerSource = "order_tool"
	SourcePolicyRAG     AnswerSource = "policy_rag"
	SourcePolicySnippet AnswerSource = "policy_snippet"
)

// Answer is a categorical automated answer.
type Answer struct {
	Message  string
	Source   AnswerSource
	DeepLink string
}

// ActionGuidance points the user at an in-app flow.
type ActionGuidance struct {
	Message  string
	DeepLink string
}

// Incident acknowledges that a ticket was opened.
type Incident struct {
	Message    string
	IncidentID string
}

// HumanFallback hands the request to a human operator.
type HumanFallback struct {
	Message string
	Reason  FallbackReason
}

func (Answer) Kind() ResponseKind         { return KindAnswer }
func (ActionGuidance) Kind() ResponseKind { return KindActionGuidance }
func (Incident) Kind() ResponseKind       { return KindIncident }
func (HumanFallback) Kind() ResponseKind  { return KindHumanFallback }

func (r Answer) Text() string         { return r.Message }
func (r ActionGuidance) Text() string { return r.Message }
func (r Incident) Text() string       { return r.Message }
func (r HumanFallback) Text() string  { return r.Message }

func (Answer) Automated() bool         { return true }
func (ActionGuidance) Automated() bool { return true }
func (Incident) Automated() bool       { return false }
func (HumanFallback) Automated() bool  { return false }

func (Answer) sealed()         {}
func (ActionGuidance) sealed() {}
func (Incident) sealed()       {}
func (HumanFallback) sealed()  {}

// DeepLinkOf returns the deep link carried by a response, if any.
func DeepLinkOf(r Response) string {
	switch v := r.(type) {
	case Answer:
		return v.DeepLink
	case ActionGuidance:
		return v.DeepLink
	default:
		return ""
	}
}
