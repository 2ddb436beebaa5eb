package llm

import (
	"context"
	"fmt"
	"sync"
)

// FakeResult is one scripted response for a FakeClient call.
type FakeResult struct {
	Text string
	Err  error
}

// FakeClient is a scripted Client implementation for tests. It returns its
// scripted results in order and records every call it receives.
type FakeClient struct {
	ProviderName Provider
	Results      []FakeResult

	mu    sync.Mutex
	calls []FakeCall
}

// FakeCall records the arguments of one Generate call.
type FakeCall struct {
	Session string
	Model   string
	System  string
	User    string
}

// Generate returns the next scripted result. Once the script is exhausted,
// every further call fails.
func (f *FakeClient) Generate(ctx context.Context, session, model, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, FakeCall{Session: session, Model: model, System: system, User: user})

	idx := len(f.calls) - 1
	if idx >= len(f.Results) {
		return "", fmt.Errorf("fake client: no scripted result for call %d", idx+1)
	}
	return f.Results[idx].Text, f.Results[idx].Err
}

// Provider returns the configured provider name, defaulting to openai.
func (f *FakeClient) Provider() Provider {
	if f.ProviderName == "" {
		return ProviderOpenAI
	}
	return f.ProviderName
}

// Close is a no-op.
func (f *FakeClient) Close() error {
	return nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times Generate was invoked.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
