package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// TriageInput is the input schema for the triage tool.
type TriageInput struct {
	Text          string   `json:"text" jsonschema:"the question asked by the field worker"`
	UserID        string   `json:"user_id" jsonschema:"identifier of the asking user"`
	Role          string   `json:"role,omitempty" jsonschema:"driver or group_leader"`
	Region        string   `json:"region,omitempty" jsonschema:"region code used for policy filtering"`
	ClientVersion string   `json:"client_version,omitempty" jsonschema:"app version used for policy filtering"`
	Lat           *float64 `json:"lat,omitempty" jsonschema:"device latitude"`
	Lng           *float64 `json:"lng,omitempty" jsonschema:"device longitude"`
}

// TriageOutput is the output schema for the triage tool.
type TriageOutput struct {
	Kind          string  `json:"kind"`
	Text          string  `json:"text"`
	DeepLink      string  `json:"deep_link,omitempty"`
	RequiresHuman bool    `json:"requires_human"`
	TicketCreated bool    `json:"ticket_created"`
	IncidentID    string  `json:"incident_id,omitempty"`
	Intent        string  `json:"intent,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// RetrieveInput is the input schema for the retrieve_policy tool.
type RetrieveInput struct {
	Query         string `json:"query" jsonschema:"the policy question"`
	Region        string `json:"region,omitempty" jsonschema:"region code used for policy filtering"`
	ClientVersion string `json:"client_version,omitempty" jsonschema:"app version used for policy filtering"`
	TopK          int    `json:"top_k,omitempty" jsonschema:"maximum number of results (default from settings)"`
}

// RetrieveOutput is the output schema for the retrieve_policy tool.
type RetrieveOutput struct {
	Results []domain.FusedResult `json:"results"`
	Count   int                  `json:"count"`
}

// errRetrievalDisabled is returned when no retrieval port is configured.
var errRetrievalDisabled = errors.New("policy retrieval is not configured")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage",
		Description: "Answer a logistics field worker question or hand it to a human",
	}, s.handleTriage)

	if s.ports.Retrieval != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "retrieve_policy",
			Description: "Search the policy corpus with hybrid keyword and vector retrieval",
		}, s.handleRetrieve)
	}
}

// handleTriage runs the triage pipeline for one question.
func (s *Server) handleTriage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TriageInput,
) (*mcp.CallToolResult, TriageOutput, error) {
	q := domain.Query{
		Text:   input.Text,
		UserID: input.UserID,
		Role:   domain.UserRole(input.Role),
		Context: domain.RequestContext{
			Region:        input.Region,
			ClientVersion: input.ClientVersion,
		},
	}
	if input.Lat != nil && input.Lng != nil {
		q.Context.Geo = &domain.GeoPoint{Lat: *input.Lat, Lng: *input.Lng}
	}

	state := s.ports.Triage.Triage(ctx, q)
	return nil, toTriageOutput(state), nil
}

func toTriageOutput(state *domain.AgentState) TriageOutput {
	out := TriageOutput{
		Text:          state.Text(),
		DeepLink:      state.DeepLink(),
		RequiresHuman: state.RequiresHuman(),
		TicketCreated: state.TicketCreated(),
		Intent:        state.Classification.Intent.String(),
		Confidence:    state.Classification.Confidence,
	}
	if resp := state.Response(); resp != nil {
		out.Kind = string(resp.Kind())
		if inc, ok := resp.(domain.Incident); ok {
			out.IncidentID = inc.IncidentID
		}
	}
	return out
}

// handleRetrieve runs hybrid retrieval without the rest of the pipeline.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, RetrieveOutput{}, errRetrievalDisabled
	}

	opts := s.ports.RetrievalSettings.Options(domain.MetadataFilter{
		Region:        input.Region,
		ClientVersion: input.ClientVersion,
	})
	if input.TopK > 0 {
		opts.TopK = input.TopK
	}
	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultSettings().Retrieval.TopK
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}
	if results == nil {
		results = []domain.FusedResult{}
	}

	return nil, RetrieveOutput{Results: results, Count: len(results)}, nil
}
