// ABOUTME: MCP tool handler implementations for the PolicyAtlas server
// ABOUTME: Thin adapters from tool arguments to the query engine
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/policyatlas/policyatlas/internal/core"
	"github.com/policyatlas/policyatlas/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine *core.Engine
}

// ChatPolicyAssistant handles the chat_policy_assistant tool
func (h *Handlers) ChatPolicyAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	req := &models.ChatRequest{
		Message:        message,
		ConversationID: request.GetString("conversation_id", ""),
		Context:        request.GetString("context", ""),
	}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := h.engine.Chat(ctx, req)

	payload, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// SearchPolicies handles the search_policies tool
func (h *Handlers) SearchPolicies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limit := request.GetInt("max_results", 10)
	if limit < 1 {
		limit = 10
	}

	results := h.engine.Search(ctx, query, limit)
	if results == nil {
		results = []core.SearchResult{}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query":   query,
		"results": results,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// CacheStatus handles the cache_status tool
func (h *Handlers) CacheStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(h.engine.Cache().Status())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// RefreshCache handles the refresh_cache tool
func (h *Handlers) RefreshCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := h.engine.Cache().Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache refresh failed: %v", err)), nil
	}

	payload, err := json.Marshal(h.engine.Cache().Status())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
