package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleSettingsResource(t *testing.T) {
	settings := &mockSettings{values: map[string]string{
		"google.api_key":           "AIzaSyExampleKey1234",
		"matcher.report_threshold": "0.7",
		"stackexchange.key":        "abc",
	}}
	server := newTestServer(t, &Ports{Checker: &mockChecker{}, Settings: settings})

	result, err := server.handleSettingsResource(context.Background(), readRequest("guttenberg://settings"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &values))
	assert.Equal(t, "0.7", values["matcher.report_threshold"])
	assert.Equal(t, "****************1234", values["google.api_key"])
	assert.Equal(t, "***", values["stackexchange.key"])
}

func TestServer_handleFeedbackResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists verdicts", func(t *testing.T) {
		fb := &mockFeedback{recorded: []domain.Feedback{
			{ID: "a", AnswerID: 5, Verdict: domain.VerdictTruePositive, Reporter: "r"},
			{ID: "b", AnswerID: 6, Verdict: domain.VerdictFalsePositive},
		}}
		server := newTestServer(t, &Ports{Checker: &mockChecker{}, Feedback: fb})

		result, err := server.handleFeedbackResource(ctx, readRequest("guttenberg://feedback/5"))

		require.NoError(t, err)
		var items []map[string]string
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0]["id"])
		assert.Equal(t, "tp", items[0]["verdict"])
	})

	t.Run("bad uri is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Checker: &mockChecker{}, Feedback: &mockFeedback{}})

		_, err := server.handleFeedbackResource(ctx, readRequest("guttenberg://feedback/abc"))

		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Checker: &mockChecker{}, Feedback: &mockFeedback{err: errors.New("locked")}})

		_, err := server.handleFeedbackResource(ctx, readRequest("guttenberg://feedback/5"))

		assert.Error(t, err)
	})
}

func TestExtractAnswerID(t *testing.T) {
	assert.Equal(t, 12, extractAnswerID("guttenberg://feedback/12"))
	assert.Equal(t, 0, extractAnswerID("guttenberg://feedback/"))
	assert.Equal(t, 0, extractAnswerID("other://feedback/12"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abcd"))
	assert.Equal(t, "*bcde", maskSecret("abcde"))
}
