package domain

import "context"

// QuestionModel is the generative model collaborator: one system instruction
// and one user message in, the raw reply text out. Implementations do not
// retry; failures are reported as LLM service errors.
type QuestionModel interface {
	Invoke(ctx context.Context, systemInstruction, userContent string) (string, error)
}
