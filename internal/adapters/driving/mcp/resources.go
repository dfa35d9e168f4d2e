package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Guttenberg resources.
	uriScheme = "guttenberg://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "settings",
			Name:        "settings",
			Description: "Current matcher and search configuration",
			MIMEType:    "application/json",
		}, s.handleSettingsResource)
	}

	if s.ports.Feedback != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "feedback/{answerId}",
			Name:        "answer-feedback",
			Description: "Verdicts recorded for an answer",
			MIMEType:    "application/json",
		}, s.handleFeedbackResource)
	}
}

// handleSettingsResource returns every configuration key with secrets masked.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	values := make(map[string]string)
	for _, key := range s.ports.Settings.Keys() {
		val, ok := s.ports.Settings.Value(key)
		if !ok {
			continue
		}
		if isSecretKey(key) {
			val = maskSecret(val)
		}
		values[key] = val
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFeedbackResource returns the verdicts recorded for an answer.
func (s *Server) handleFeedbackResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	answerID := extractAnswerID(req.Params.URI)
	if answerID <= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	history, err := s.ports.Feedback.History(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("loading feedback: %w", err)
	}

	type feedbackInfo struct {
		ID        string `json:"id"`
		Verdict   string `json:"verdict"`
		Reporter  string `json:"reporter"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]feedbackInfo, len(history))
	for i, fb := range history {
		infos[i] = feedbackInfo{
			ID:        fb.ID,
			Verdict:   string(fb.Verdict),
			Reporter:  fb.Reporter,
			CreatedAt: fb.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling feedback: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAnswerID extracts the answer ID from a URI like guttenberg://feedback/{answerId}.
func extractAnswerID(uri string) int {
	const prefix = uriScheme + "feedback/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}

	id, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return 0
	}
	return id
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, ".key") || strings.HasSuffix(key, ".cx")
}

// maskSecret keeps the last four characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
