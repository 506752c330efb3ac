// Package generate talks to the text-generation service used by agent chat
// and system-prompt authoring. Failures never escape: the helpers return
// fixed fallback text instead.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// OfflineReply is what an agent "says" when generation fails.
	OfflineReply = "Agent Offline."
	// DefaultSystemPrompt is the authoring fallback when there is no prompt
	// to keep.
	DefaultSystemPrompt = "You are a helpful AI assistant."

	emptyReply = "..."

	promptEngineerInstruction = "You are an expert AI Prompt Engineer. Output only the raw system prompt text. " +
		"Do not include markdown fencing or conversational explanations."

	// Shorter prompts are treated as placeholders and regenerated from scratch.
	minRefinablePrompt = 10
)

// ErrUnavailable is returned by Offline.
var ErrUnavailable = errors.New("generation service unavailable")

// Generator produces text for a prompt under a system instruction.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// Offline is a Generator that always fails. It stands in when no
// credentials are configured.
type Offline struct{}

func (Offline) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

// ChatWithAgent asks the agent, in character, to answer message. It returns
// OfflineReply on any error.
func ChatWithAgent(ctx context.Context, g Generator, role, systemPrompt, message string) string {
	instruction := fmt.Sprintf("You are a specialized AI Agent with the role: %s.\n"+
		"Your internal System Prompt is: %q.\n"+
		"Respond to the user's test message in character. Keep it brief.", role, systemPrompt)

	text, err := g.Generate(ctx, "User message: "+message, instruction)
	if err != nil {
		slog.Warn("agent chat failed", "role", role, "error", err)
		return OfflineReply
	}
	if strings.TrimSpace(text) == "" {
		return emptyReply
	}
	return text
}

// AuthorSystemPrompt writes a system prompt for role. When currentPrompt is
// long enough it is refined according to goal; otherwise a new prompt is
// generated for goal. On error or an empty result it returns currentPrompt,
// or DefaultSystemPrompt when that is empty.
func AuthorSystemPrompt(ctx context.Context, g Generator, goal, role, currentPrompt string) string {
	var prompt string
	if len(currentPrompt) > minRefinablePrompt {
		prompt = fmt.Sprintf("Role: %s\n\nCurrent System Prompt:\n\"\"\"\n%s\n\"\"\"\n\nUser Request: %s\n\n"+
			"Task: Refine the system prompt above based on the user's request. Preserve the role but improve "+
			"instructions, constraints, or style as requested. Return ONLY the updated prompt text.",
			role, currentPrompt, goal)
	} else {
		prompt = fmt.Sprintf("Role: %s\nGoal: %s\n\n"+
			"Task: Generate a highly optimized, professional System Prompt for an AI Agent to achieve this goal. "+
			"Include behavioral guidelines, constraints, and output format requirements.", role, goal)
	}

	text, err := g.Generate(ctx, prompt, promptEngineerInstruction)
	if err != nil {
		slog.Warn("prompt authoring failed", "role", role, "error", err)
		return fallbackPrompt(currentPrompt)
	}
	if text = strings.TrimSpace(text); text == "" {
		return fallbackPrompt(currentPrompt)
	}
	return text
}

func fallbackPrompt(current string) string {
	if current != "" {
		return current
	}
	return DefaultSystemPrompt
}
