// ABOUTME: CLI command for chatting with the policy assistant
// ABOUTME: Single-shot with an argument, or an interactive REPL keeping one conversation
package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/models"
)

var chatConversationID string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the policy assistant",
		Long: `Chat with the PolicyAtlas assistant.

With a message argument, answers once and exits. Without arguments,
starts an interactive session where follow-up questions carry context
("policies in Bangladesh" ... "and India?").

Examples:
  atlas chat "What AI policies does Bangladesh have?"
  atlas chat --conversation conv_abc123 "and India?"
  atlas chat`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatConversationID, "conversation", "", "Conversation ID to continue")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := buildEngine(cfg, store)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 1 {
		return chatOnce(ctx, cmd, engine, args[0])
	}
	return chatInteractive(ctx, cmd, engine)
}

func chatOnce(ctx context.Context, cmd *cobra.Command, engine chatEngine, message string) error {
	resp := engine.Chat(ctx, &models.ChatRequest{
		Message:        message,
		ConversationID: chatConversationID,
	})

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(conversation: %s)\n", resp.ConversationID)
	}
	return nil
}

func chatInteractive(ctx context.Context, cmd *cobra.Command, engine chatEngine) error {
	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintln(out, "PolicyAtlas assistant. Ask about tracked policies; type \"exit\" to leave.")
	}

	conversationID := chatConversationID
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}

		resp := engine.Chat(ctx, &models.ChatRequest{
			Message:        message,
			ConversationID: conversationID,
		})
		conversationID = resp.ConversationID

		fmt.Fprintf(out, "%s\n\n", resp.Response)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if !quiet && conversationID != "" {
		fmt.Fprintf(out, "(conversation: %s)\n", conversationID)
	}
	return nil
}

// chatEngine is the slice of the engine the chat command needs; tests
// substitute a fake.
type chatEngine interface {
	Chat(ctx context.Context, req *models.ChatRequest) *models.ChatResponse
}
