package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for fieldtriage resources.
const uriScheme = "fieldtriage://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Policies == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "policies",
		Name:        "policies",
		Description: "List of all loaded policy documents",
		MIMEType:    "application/json",
	}, s.handlePoliciesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "policies/{policyId}",
		Name:        "policy-content",
		Description: "Content of a specific policy document",
		MIMEType:    "text/plain",
	}, s.handlePolicyContentResource)
}

// handlePoliciesResource returns a summary of every policy.
func (s *Server) handlePoliciesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type policyInfo struct {
		ID               string `json:"id"`
		Region           string `json:"region,omitempty"`
		MinClientVersion string `json:"min_client_version,omitempty"`
		DeepLink         string `json:"deep_link,omitempty"`
	}

	docs := s.ports.Policies.Documents()
	infos := make([]policyInfo, len(docs))
	for i, d := range docs {
		infos[i] = policyInfo{
			ID:               d.ID,
			Region:           d.Metadata.Region,
			MinClientVersion: d.Metadata.MinClientVersion,
			DeepLink:         d.DeepLink,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling policies: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePolicyContentResource returns the text of a single policy.
func (s *Server) handlePolicyContentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractPolicyID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, ok := s.ports.Policies.Document(id)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}

// extractPolicyID extracts the ID from a URI like fieldtriage://policies/{policyId}.
func extractPolicyID(uri string) string {
	const prefix = uriScheme + "policies/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
