package registry

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/vinodismyname/mcpeassc/config"
)

// SummaryBudget caps the text summary attached to tool results at a number
// of tokens for the configured model.
type SummaryBudget struct {
	Model     string
	MaxTokens int
	// Count returns the token count of text; nil uses llms.CountTokens.
	Count func(model, text string) int
}

// Fit joins lines until the budget is spent and reports how many lines were
// dropped. The budget never exceeds the model's context window.
func (b SummaryBudget) Fit(lines []string) (string, int) {
	count := b.Count
	if count == nil {
		count = llms.CountTokens
	}
	model := b.Model
	if model == "" {
		model = config.DefaultModel
	}
	limit := b.MaxTokens
	if limit <= 0 {
		limit = config.DefaultSummaryTokenBudget
	}
	if window := llms.GetModelContextSize(model); window > 0 && limit > window {
		limit = window
	}

	used := 0
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		n := count(model, line+"\n")
		if used+n > limit {
			dropped := len(lines) - i
			kept = append(kept, fmt.Sprintf("... %d more lines truncated", dropped))
			return strings.Join(kept, "\n"), dropped
		}
		used += n
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), 0
}

// ContextWindow returns the context size langchaingo reports for model,
// falling back to the default model when model is empty.
func ContextWindow(model string) int {
	if model == "" {
		model = config.DefaultModel
	}
	return llms.GetModelContextSize(model)
}
