package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MrWong99/courtside/pkg/provider/llm"
)

func TestUnconfigured_CompleteFails(t *testing.T) {
	t.Parallel()

	cause := errors.New("missing API key")
	p := llm.Unconfigured(cause)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if resp != nil {
		t.Errorf("Complete() response = %+v, want nil", resp)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Complete() error = %v, want wrapped cause", err)
	}
}

func TestUnconfigured_StreamFails(t *testing.T) {
	t.Parallel()

	cause := errors.New("missing API key")
	p := llm.Unconfigured(cause)

	ch, err := p.StreamCompletion(context.Background(), llm.CompletionRequest{})
	if ch != nil {
		t.Error("StreamCompletion() channel != nil, want nil alongside the error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("StreamCompletion() error = %v, want wrapped cause", err)
	}
}

func TestUnconfigured_ZeroCapabilities(t *testing.T) {
	t.Parallel()

	p := llm.Unconfigured(errors.New("missing API key"))
	if caps := p.Capabilities(); caps != (llm.ModelCapabilities{}) {
		t.Errorf("Capabilities() = %+v, want zero value", caps)
	}
}
