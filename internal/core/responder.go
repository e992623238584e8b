// ABOUTME: ResponseGenerator builds bounded prompts and drives the provider fallback chain
// ABOUTME: Template-only intents and empty candidate sets never touch a provider
package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/llm"
	"github.com/policyatlas/policyatlas/internal/models"
)

// DefaultPromptBudget caps the serialized policy context handed to providers.
const DefaultPromptBudget = 8000

// GenerationChain is the slice of the llm chain the responder needs.
type GenerationChain interface {
	Generate(ctx context.Context, prompt string, history []llm.Message) (string, string, error)
}

const (
	greetingTemplate = "Hello! I'm the PolicyAtlas assistant. Ask me about government policies by country or topic, for example \"What AI policies does Bangladesh have?\" or \"Compare data protection in the US and the UK\"."

	helpTemplate = "I can answer questions about the policies tracked in PolicyAtlas. Try:\n" +
		"- \"policies in <country>\" for everything we track for a country\n" +
		"- \"<topic> policies\" (e.g. AI safety, data protection) across countries\n" +
		"- \"compare <country> and <country>\" for a side-by-side view\n" +
		"- \"countries\" or \"areas\" to see what's covered"

	outOfScopeTemplate = "I can only help with questions about tracked government policies, so I'll pass on that one. Ask me about a country's policies or a policy area instead."

	unknownTemplate = "I wasn't sure what to look up there. Ask about a country (\"policies in Kenya\"), a policy area (\"data protection policies\"), or say \"help\" for more examples."

	corpusEmptyTemplate = "The policy corpus isn't loaded right now. Please try again in a moment."
)

// ResponseGenerator produces the final natural-language reply for a turn.
type ResponseGenerator struct {
	chain  GenerationChain
	budget int
}

// NewResponseGenerator creates a responder. A nil chain means every
// generative intent falls through to deterministic answers.
func NewResponseGenerator(chain GenerationChain, promptBudget int) *ResponseGenerator {
	if promptBudget <= 0 {
		promptBudget = DefaultPromptBudget
	}
	return &ResponseGenerator{chain: chain, budget: promptBudget}
}

// Generate always returns a usable reply; every internal failure degrades to
// a deterministic template built from the candidates.
func (g *ResponseGenerator) Generate(ctx context.Context, intent models.Intent, result *RetrievalResult, rctx *models.ResolvedContext, rawMessage string, snap *corpus.Snapshot) string {
	switch intent.Kind {
	case models.IntentGreeting:
		return greetingTemplate
	case models.IntentHelp:
		return helpTemplate
	case models.IntentOutOfScope:
		return outOfScopeTemplate
	case models.IntentUnknown:
		return unknownTemplate
	case models.IntentListCountries:
		return listTemplate("countries", snapCountries(snap))
	case models.IntentListAreas:
		return listTemplate("policy areas", snapAreas(snap))
	}

	// Lookup and comparison intents from here on.
	if result == nil || len(result.Groups) == 0 {
		return unresolvedTemplate(snap)
	}
	if result.Total() == 0 {
		// Resolved entities with nothing recorded: skip providers entirely,
		// there is no data to ground a generative answer in.
		return noDataTemplate(result)
	}

	if g.chain != nil {
		prompt := g.buildPrompt(intent, result, rawMessage)
		reply, provider, err := g.chain.Generate(ctx, prompt, historyFromContext(rctx))
		if err == nil {
			log.Printf("response generated by provider %s", provider)
			return reply
		}
		log.Printf("provider chain exhausted, using deterministic answer: %v", err)
	}

	return deterministicAnswer(intent, result)
}

// buildPrompt serializes the candidate records into a bounded context block.
func (g *ResponseGenerator) buildPrompt(intent models.Intent, result *RetrievalResult, rawMessage string) string {
	var sb strings.Builder
	sb.WriteString("POLICY DATA:\n")

	remaining := g.budget
	for _, group := range result.Groups {
		header := fmt.Sprintf("\n%s:\n", group.Entity)
		if len(group.Records) == 0 {
			header += "  (no policies recorded)\n"
		}
		if len(header) > remaining {
			break
		}
		sb.WriteString(header)
		remaining -= len(header)

		for _, rec := range group.Records {
			line := "  - " + rec.Summary() + "\n"
			if len(line) > remaining {
				break
			}
			sb.WriteString(line)
			remaining -= len(line)
		}
	}

	if intent.Kind == models.IntentComparison {
		sb.WriteString("\nPresent a structured comparison across the entities above.\n")
	}
	sb.WriteString("\nQUESTION: ")
	sb.WriteString(rawMessage)
	return sb.String()
}

// historyFromContext turns the bounded recent-query list into provider history.
func historyFromContext(rctx *models.ResolvedContext) []llm.Message {
	if rctx == nil {
		return nil
	}
	queries := rctx.RecentQueries
	// The live message is already the prompt; only prior queries are history.
	if len(queries) > 0 {
		queries = queries[:len(queries)-1]
	}
	history := make([]llm.Message, 0, len(queries))
	for _, q := range queries {
		history = append(history, llm.Message{Role: models.RoleUser, Content: q})
	}
	return history
}

// deterministicAnswer is the last link of the fallback chain: a templated
// reply built directly from the candidates.
func deterministicAnswer(intent models.Intent, result *RetrievalResult) string {
	var sb strings.Builder
	if intent.Kind == models.IntentComparison {
		sb.WriteString("Here's what PolicyAtlas has for each:\n")
	} else {
		sb.WriteString("Here's what PolicyAtlas has:\n")
	}

	for _, group := range result.Groups {
		sb.WriteString(fmt.Sprintf("\n%s (%d %s):\n", group.Entity, len(group.Records), pluralize("policy", "policies", len(group.Records))))
		if len(group.Records) == 0 {
			sb.WriteString("  No policies recorded yet.\n")
			continue
		}
		for _, rec := range group.Records {
			if rec.ImplementationYear > 0 {
				sb.WriteString(fmt.Sprintf("  - %s (%s, %d)\n", rec.Name, rec.PolicyArea, rec.ImplementationYear))
			} else {
				sb.WriteString(fmt.Sprintf("  - %s (%s)\n", rec.Name, rec.PolicyArea))
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func noDataTemplate(result *RetrievalResult) string {
	names := make([]string, 0, len(result.Groups))
	for _, g := range result.Groups {
		names = append(names, g.Entity)
	}
	return fmt.Sprintf("No policies are recorded for %s yet. If you know of one, we'd welcome a contribution through the submission form.", joinNatural(names))
}

func unresolvedTemplate(snap *corpus.Snapshot) string {
	countries := snapCountries(snap)
	if len(countries) == 0 {
		return corpusEmptyTemplate
	}
	preview := countries
	if len(preview) > 8 {
		preview = preview[:8]
	}
	return fmt.Sprintf("I couldn't match that to a country or policy area I track. Countries I know include %s. You can also ask \"countries\" for the full list.", strings.Join(preview, ", "))
}

func listTemplate(noun string, names []string) string {
	if len(names) == 0 {
		return corpusEmptyTemplate
	}
	return fmt.Sprintf("PolicyAtlas currently tracks %d %s:\n- %s", len(names), noun, strings.Join(names, "\n- "))
}

func snapCountries(snap *corpus.Snapshot) []string {
	if snap == nil {
		return nil
	}
	return snap.Countries
}

func snapAreas(snap *corpus.Snapshot) []string {
	if snap == nil {
		return nil
	}
	return snap.Areas
}

func joinNatural(names []string) string {
	switch len(names) {
	case 0:
		return "that"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}

func pluralize(singular, plural string, n int) string {
	if n == 1 {
		return singular
	}
	return plural
}
