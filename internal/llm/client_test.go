package llm

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.Client(ProviderOpenAI); err == nil {
		t.Error("empty registry should not resolve any provider")
	}

	fake := &FakeClient{ProviderName: ProviderGemini}
	registry.Register(fake)

	client, err := registry.Client(ProviderGemini)
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	if client.Provider() != ProviderGemini {
		t.Errorf("Provider() = %q, want %q", client.Provider(), ProviderGemini)
	}

	if _, err := registry.Client(ProviderOpenAI); err == nil {
		t.Error("unregistered provider should not resolve")
	}

	if err := registry.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFakeClientScript(t *testing.T) {
	fake := &FakeClient{
		Results: []FakeResult{
			{Text: "first"},
			{Err: errors.New("second fails")},
		},
	}

	got, err := fake.Generate(context.Background(), "s1", "m", "sys", "user")
	if err != nil || got != "first" {
		t.Errorf("call 1 = (%q, %v), want (first, nil)", got, err)
	}

	if _, err := fake.Generate(context.Background(), "s2", "m", "sys", "user"); err == nil {
		t.Error("call 2 should return the scripted error")
	}

	// Script exhausted.
	if _, err := fake.Generate(context.Background(), "s3", "m", "sys", "user"); err == nil {
		t.Error("call 3 should fail once the script is exhausted")
	}

	calls := fake.Calls()
	if len(calls) != 3 {
		t.Fatalf("got %d recorded calls, want 3", len(calls))
	}
	if calls[0].Session != "s1" || calls[1].Session != "s2" {
		t.Error("recorded sessions do not match the calls made")
	}
}

func TestFakeClientHonorsContext(t *testing.T) {
	fake := &FakeClient{Results: []FakeResult{{Text: "never"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fake.Generate(ctx, "s", "m", "sys", "user"); err == nil {
		t.Error("a cancelled context should abort the call")
	}
	if fake.CallCount() != 0 {
		t.Errorf("cancelled calls should not be recorded, got %d", fake.CallCount())
	}
}
