package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/bookforge/internal/llm"
	"github.com/jonathan/bookforge/internal/prompts"
	"github.com/jonathan/bookforge/internal/types"
)

const (
	// maxAttempts bounds the external generation attempts per request.
	maxAttempts = 3
	// minAcceptableLength is the minimum trimmed response length (in bytes)
	// for an external response to be accepted as the book body.
	minAcceptableLength = 500
)

// Store is the persistence collaborator the pipeline hands finished books to.
// The pipeline never retries persistence; durability is the store's contract.
type Store interface {
	SaveBook(ctx context.Context, book *types.Book) error
}

// Generator runs the content generation pipeline. It holds no mutable state
// between calls, so a single Generator may serve concurrent requests.
type Generator struct {
	registry *llm.Registry
	store    Store
	now      func() time.Time
	newID    func() uuid.UUID
}

// New creates a Generator backed by the given provider registry and store.
// store may be nil, in which case books are returned but not persisted.
func New(registry *llm.Registry, store Store) *Generator {
	return &Generator{
		registry: registry,
		store:    store,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Generate runs the full pipeline for one request and returns the book.
// It fails only when ctx is cancelled; every other failure mode ends in a
// deterministic fallback body, so callers can treat the result as always
// present. Fallback books carry StatusDegraded so that callers can tell
// template content from externally generated content.
func (g *Generator) Generate(ctx context.Context, req types.BookRequest) (*types.Book, error) {
	req.ApplyDefaults()

	body, generated, err := g.attemptLoop(ctx, req)
	if err != nil {
		return nil, err
	}

	status := types.StatusGenerated
	if !generated {
		log.Printf("[generator] all %d attempts failed for topic %q, using fallback", maxAttempts, req.Topic)
		body = FallbackBody(req, g.now())
		status = types.StatusDegraded
	}

	book := &types.Book{
		ID:        g.newID(),
		Topic:     req.Topic,
		Audience:  req.Audience,
		Style:     req.Style,
		Tier:      req.Tier,
		Body:      body,
		Status:    status,
		WordCount: len(strings.Fields(body)),
		Email:     req.Email,
		CreatedAt: g.now().UTC(),
	}

	if g.store != nil {
		if err := g.store.SaveBook(ctx, book); err != nil {
			// Persistence is the store's contract; the book is still returned.
			log.Printf("[generator] failed to persist book %s: %v", book.ID, err)
		}
	}

	return book, nil
}

// attemptLoop makes up to maxAttempts sequential generation attempts.
// Attempt 1 uses the topic-driven strategy; later attempts abandon it and
// converge on the default provider. The first qualifying response wins.
func (g *Generator) attemptLoop(ctx context.Context, req types.BookRequest) (string, bool, error) {
	strategy := SelectStrategy(req.Topic, req.Tier)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if attempt > 1 {
			strategy = DefaultStrategy(req.Tier)
		}

		body, ok := g.attempt(ctx, attempt, strategy, req)
		if ok {
			return body, true, nil
		}
		// A cancelled context shows up as a failed attempt; stop retrying.
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
	}

	return "", false, nil
}

// attempt makes one generation call and reports whether its response
// qualifies. Each attempt opens a fresh session so the provider cannot
// correlate retries as a single conversation.
func (g *Generator) attempt(ctx context.Context, n int, strategy Strategy, req types.BookRequest) (string, bool) {
	client, err := g.registry.Client(strategy.Provider)
	if err != nil {
		log.Printf("[generator] attempt %d: %v", n, err)
		return "", false
	}

	session := fmt.Sprintf("book-%s-%d", g.newID(), n)
	system, user := buildPrompts(req, strategy)

	log.Printf("[generator] attempt %d: generating with %s/%s", n, strategy.Provider, strategy.Model)

	body, err := client.Generate(ctx, session, strategy.Model, system, user)
	if err != nil {
		log.Printf("[generator] attempt %d failed: %v", n, err)
		return "", false
	}
	if len(strings.TrimSpace(body)) <= minAcceptableLength {
		log.Printf("[generator] attempt %d: response too short (%d bytes)", n, len(strings.TrimSpace(body)))
		return "", false
	}

	return body, true
}

// buildPrompts renders the system and user prompts for one attempt.
func buildPrompts(req types.BookRequest, strategy Strategy) (system, user string) {
	data := map[string]string{
		"Topic":            req.Topic,
		"Audience":         req.Audience,
		"Style":            req.Style,
		"StyleInstruction": strategy.StyleInstruction,
		"LengthBand":       BandLabel(strategy.Band),
	}
	system = prompts.Format(prompts.MustGet("book.json", "system"), data)
	user = prompts.Format(prompts.MustGet("book.json", "user"), data)
	return system, user
}
