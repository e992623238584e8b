// ABOUTME: MCP tool definitions and registration for the PolicyAtlas server
// ABOUTME: Defines JSON schemas for the chat, search, and cache maintenance tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/policyatlas/policyatlas/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, engine *core.Engine) *Handlers {
	handlers := &Handlers{engine: engine}

	// 1. chat_policy_assistant - one conversational turn through the query engine
	server.AddTool(mcp.Tool{
		Name:        "chat_policy_assistant",
		Description: "Ask the PolicyAtlas assistant about tracked government policies. Supports follow-up questions when a conversation_id from a previous call is provided.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The user's question or message",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to continue; omit to start a new one",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Optional caller-supplied background folded into answer generation",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.ChatPolicyAssistant)

	// 2. search_policies - keyword search over the corpus, no chat framing
	server.AddTool(mcp.Tool{
		Name:        "search_policies",
		Description: "Keyword search across tracked policies by name, country, area, or description.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchPolicies)

	// 3. cache_status - corpus snapshot health
	server.AddTool(mcp.Tool{
		Name:        "cache_status",
		Description: "Report the policy corpus cache status: record, country, and area counts plus last refresh time.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.CacheStatus)

	// 4. refresh_cache - force a corpus reload from the store
	server.AddTool(mcp.Tool{
		Name:        "refresh_cache",
		Description: "Force an immediate refresh of the policy corpus cache from the durable store.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.RefreshCache)

	return handlers
}
