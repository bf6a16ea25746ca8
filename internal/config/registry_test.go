package config_test

import (
	"errors"
	"testing"

	"github.com/MrWong99/courtside/internal/config"
	"github.com/MrWong99/courtside/pkg/provider/llm"
	"github.com/MrWong99/courtside/pkg/provider/llm/mock"
)

func TestRegistry_CreateLLM(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	want := &mock.Provider{}
	var gotEntry config.ProviderEntry
	r.RegisterLLM("gemini", func(e config.ProviderEntry) (llm.Provider, error) {
		gotEntry = e
		return want, nil
	})

	entry := config.ProviderEntry{Name: "gemini", Model: "gemini-2.0-flash", APIKey: "k"}
	got, err := r.CreateLLM(entry)
	if err != nil {
		t.Fatalf("CreateLLM() error = %v", err)
	}
	if got != want {
		t.Error("CreateLLM() did not return the factory's provider")
	}
	if gotEntry.Model != "gemini-2.0-flash" || gotEntry.APIKey != "k" {
		t.Errorf("factory received entry %+v, want the original entry", gotEntry)
	}
}

func TestRegistry_UnregisteredName(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	_, err := r.CreateLLM(config.ProviderEntry{Name: "missing"})
	if !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Fatalf("CreateLLM() error = %v, want ErrProviderNotRegistered", err)
	}
}

func TestRegistry_OverwriteRegistration(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	first := &mock.Provider{}
	second := &mock.Provider{}
	r.RegisterLLM("gemini", func(config.ProviderEntry) (llm.Provider, error) { return first, nil })
	r.RegisterLLM("gemini", func(config.ProviderEntry) (llm.Provider, error) { return second, nil })

	got, err := r.CreateLLM(config.ProviderEntry{Name: "gemini"})
	if err != nil {
		t.Fatal(err)
	}
	if got != second {
		t.Error("CreateLLM() returned the first factory's provider, want the overwriting one")
	}
}
