package llm

import (
	"context"
	"fmt"
)

// Unconfigured returns a [Provider] whose calls always fail with err. It
// stands in when provider construction fails (typically a missing API key) so
// the rest of the application keeps running: roster and transcript handling
// stay functional and only chat surfaces the configuration problem, on use
// rather than at startup.
func Unconfigured(err error) Provider {
	return &unconfigured{err: err}
}

type unconfigured struct {
	err error
}

var _ Provider = (*unconfigured)(nil)

func (u *unconfigured) StreamCompletion(_ context.Context, _ CompletionRequest) (<-chan Chunk, error) {
	return nil, u.wrap()
}

func (u *unconfigured) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	return nil, u.wrap()
}

func (u *unconfigured) Capabilities() ModelCapabilities {
	return ModelCapabilities{}
}

func (u *unconfigured) wrap() error {
	return fmt.Errorf("llm: chat provider is not configured: %w", u.err)
}
