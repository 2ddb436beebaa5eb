// Package llm provides client abstractions over external text-generation providers.
// Providers are treated as unreliable: callers must tolerate errors, timeouts,
// and short or garbage responses.
package llm

import (
	"context"
	"fmt"
)

// Provider identifies an LLM provider.
type Provider string

// Supported LLM providers.
const (
	// ProviderOpenAI is the OpenAI provider (default, most reliable path).
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// Generate produces text for the given system and user prompts.
	// session is an opaque per-call identifier so that the provider cannot
	// correlate separate calls as one conversation.
	Generate(ctx context.Context, session, model, system, user string) (string, error)
	// Provider returns which provider this client talks to.
	Provider() Provider
	// Close releases any resources held by the client.
	Close() error
}

// Registry maps providers to configured clients. It is built once at startup
// from injected API keys and handed to the generation pipeline.
type Registry struct {
	clients map[Provider]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[Provider]Client)}
}

// Register adds a client for a provider, replacing any existing one.
func (r *Registry) Register(client Client) {
	r.clients[client.Provider()] = client
}

// Client returns the client for a provider.
func (r *Registry) Client(provider Provider) (Client, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %s", provider)
	}
	return client, nil
}

// Close closes all registered clients, returning the first error encountered.
func (r *Registry) Close() error {
	var firstErr error
	for _, client := range r.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
