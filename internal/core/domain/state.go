package domain

// Stage is a state of the orchestration state machine.
type Stage string

// State machine stages.
const (
	StageStart         Stage = "start"
	StageSafetyCheck   Stage = "safety_check"
	StageClassify      Stage = "classify"
	StageRoute         Stage = "route"
	StageQuery         Stage = "query"
	StageAction        Stage = "action"
	StageIncident      Stage = "incident"
	StageHumanFallback Stage = "human_fallback"
	StageDone          Stage = "done"
)

// StageFor returns the handling stage for a routing category.
func StageFor(c Category) Stage {
	switch c {
	case CategoryQuery:
		return StageQuery
	case CategoryAction:
		return StageAction
	case CategoryIncident:
		return StageIncident
	default:
		return StageHumanFallback
	}
}

// AgentState accumulates everything known about one request.
// It is created per request, owned by the orchestrator and never shared.
//
// Once RequiresHuman is set it stays set, and the response can no longer be
// replaced by an automated one.
type AgentState struct {
	// Query is the request as received.
	Query Query

	// MaskedText is the question with personal data masked.
	MaskedText string

	// Classification is the classifier output, if the stage was reached.
	Classification ClassificationResult

	// Route is the routing decision.
	Route Category

	// Trail lists the visited stages in order.
	Trail []Stage

	// Reason records why the request fell back to a human.
	Reason FallbackReason

	response      Response
	requiresHuman bool
	ticketCreated bool
}

// NewAgentState starts a state for the given query.
func NewAgentState(q Query) *AgentState {
	return &AgentState{
		Query: q,
		Trail: []Stage{StageStart},
	}
}

// Enter records a stage transition.
func (s *AgentState) Enter(stage Stage) {
	s.Trail = append(s.Trail, stage)
}

// Stage returns the most recent stage.
func (s *AgentState) Stage() Stage {
	if len(s.Trail) == 0 {
		return StageStart
	}
	return s.Trail[len(s.Trail)-1]
}

// Response returns the terminal response, or nil if none was set.
func (s *AgentState) Response() Response {
	return s.response
}

// RequiresHuman reports whether a human must handle the request.
func (s *AgentState) RequiresHuman() bool {
	return s.requiresHuman
}

// TicketCreated reports whether an incident ticket was opened.
func (s *AgentState) TicketCreated() bool {
	return s.ticketCreated
}

// DeepLink returns the deep link of the response, if any.
func (s *AgentState) DeepLink() string {
	if s.response == nil {
		return ""
	}
	return DeepLinkOf(s.response)
}

// Text returns the user-facing message, or an empty string.
func (s *AgentState) Text() string {
	if s.response == nil {
		return ""
	}
	return s.response.Text()
}

// Respond sets an automated response. It returns false and leaves the state
// untouched when the request already requires a human.
func (s *AgentState) Respond(r Response) bool {
	if s.requiresHuman && r.Automated() {
		return false
	}
	s.response = r
	return true
}

// Escalate marks the request for a human and replaces the response with a
// fallback. An existing incident acknowledgement is kept.
func (s *AgentState) Escalate(reason FallbackReason, message string) {
	s.requiresHuman = true
	if s.Reason == ReasonNone {
		s.Reason = reason
	}
	if _, ok := s.response.(Incident); ok {
		return
	}
	s.response = HumanFallback{Message: message, Reason: reason}
}

// OpenIncident records a created ticket. Incidents always require a human.
func (s *AgentState) OpenIncident(inc Incident) {
	s.requiresHuman = true
	s.ticketCreated = true
	if s.Reason == ReasonNone {
		s.Reason = ReasonIncident
	}
	s.response = inc
}
