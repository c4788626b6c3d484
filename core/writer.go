package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// CommitWriter suggests commit messages for staged changes.
type CommitWriter struct {
	chat contract.ChatClient
}

func NewCommitWriter(chat contract.ChatClient) *CommitWriter {
	return &CommitWriter{chat: chat}
}

// SuggestCommit proposes a message for the given staged diff.
func (w *CommitWriter) SuggestCommit(ctx context.Context, diff schema.DiffInfo) (schema.SuggestedCommit, error) {
	return w.suggest(ctx, formatWriterPrompt(diff))
}

// SuggestCommitWithMemory proposes a message shaped by the repository's
// conventions and similar high-scoring exemplars.
func (w *CommitWriter) SuggestCommitWithMemory(ctx context.Context, diff schema.DiffInfo, mem MemoryContext, exemplars []schema.SimilarExemplar) (schema.SuggestedCommit, error) {
	return w.suggest(ctx, formatMemoryWriterPrompt(diff, mem, exemplars))
}

func (w *CommitWriter) suggest(ctx context.Context, prompt string) (schema.SuggestedCommit, error) {
	raw, err := w.chat.CompleteJSON(ctx, writerSystemPrompt, prompt)
	if err != nil {
		return schema.SuggestedCommit{}, fmt.Errorf("suggest commit: %w", err)
	}
	var suggestion schema.SuggestedCommit
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return schema.SuggestedCommit{}, fmt.Errorf("suggest commit: bad response: %w", err)
	}
	suggestion.Subject = strings.TrimSpace(suggestion.Subject)
	if suggestion.Subject == "" {
		return schema.SuggestedCommit{}, fmt.Errorf("suggest commit: empty subject")
	}
	return suggestion, nil
}
