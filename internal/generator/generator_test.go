package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/bookforge/internal/llm"
	"github.com/jonathan/bookforge/internal/types"
)

// longBody is comfortably over the acceptance threshold.
var longBody = strings.Repeat("# Chapter\n\nThe quick brown fox jumps over the lazy dog. ", 20)

// memStore records SaveBook calls in memory.
type memStore struct {
	saved []*types.Book
	err   error
}

func (m *memStore) SaveBook(ctx context.Context, book *types.Book) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, book)
	return nil
}

func registryWith(clients ...*llm.FakeClient) *llm.Registry {
	registry := llm.NewRegistry()
	for _, c := range clients {
		registry.Register(c)
	}
	return registry
}

func testRequest(topic string) types.BookRequest {
	return types.BookRequest{Topic: topic, Audience: "beginners", Style: "professional", Tier: types.TierPro}
}

func TestGenerateFirstAttemptSucceeds(t *testing.T) {
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results:      []llm.FakeResult{{Text: longBody}},
	}
	store := &memStore{}
	gen := New(registryWith(openai), store)

	book, err := gen.Generate(context.Background(), testRequest("Healthy Living Tips"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if openai.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1 (no retries after a qualifying response)", openai.CallCount())
	}
	if book.Status != types.StatusGenerated {
		t.Errorf("Status = %q, want %q", book.Status, types.StatusGenerated)
	}
	if book.Body != longBody {
		t.Error("Body should be the provider response verbatim")
	}
	if book.WordCount != len(strings.Fields(longBody)) {
		t.Errorf("WordCount = %d, want %d", book.WordCount, len(strings.Fields(longBody)))
	}
	if book.ID == uuid.Nil {
		t.Error("book ID should be set")
	}
	if book.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if len(store.saved) != 1 || store.saved[0] != book {
		t.Error("the returned book should have been handed to the store")
	}
}

func TestGenerateAllAttemptsFailFallsBack(t *testing.T) {
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results: []llm.FakeResult{
			{Err: errors.New("upstream 500")},
			{Err: errors.New("upstream 500")},
			{Err: errors.New("upstream 500")},
		},
	}
	store := &memStore{}
	gen := New(registryWith(openai), store)

	req := testRequest("Healthy Living Tips")
	book, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() must not error when every attempt fails: %v", err)
	}

	if openai.CallCount() != 3 {
		t.Errorf("CallCount = %d, want 3", openai.CallCount())
	}
	if book.Status != types.StatusDegraded {
		t.Errorf("Status = %q, want %q", book.Status, types.StatusDegraded)
	}
	if !strings.Contains(book.Body, req.Topic) || !strings.Contains(book.Body, req.Audience) {
		t.Error("fallback body must contain the topic and audience verbatim")
	}
	if book.WordCount != len(strings.Fields(book.Body)) {
		t.Errorf("WordCount = %d, want %d", book.WordCount, len(strings.Fields(book.Body)))
	}
	if len(store.saved) != 1 {
		t.Error("fallback books are persisted like any other")
	}
}

func TestGenerateShortResponseTriggersRetry(t *testing.T) {
	short := strings.Repeat("x", minAcceptableLength) // trimmed length == threshold, not over it
	gemini := &llm.FakeClient{
		ProviderName: llm.ProviderGemini,
		Results:      []llm.FakeResult{{Text: short}},
	}
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results:      []llm.FakeResult{{Text: longBody}},
	}
	gen := New(registryWith(gemini, openai), nil)

	// A creative topic routes attempt 1 to Gemini; the under-length response
	// must push attempt 2 onto the default provider.
	book, err := gen.Generate(context.Background(), testRequest("A Creative Short Story"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if gemini.CallCount() != 1 {
		t.Errorf("gemini CallCount = %d, want 1", gemini.CallCount())
	}
	if openai.CallCount() != 1 {
		t.Errorf("openai CallCount = %d, want 1 (retry converges on the default provider)", openai.CallCount())
	}
	if book.Status != types.StatusGenerated {
		t.Errorf("Status = %q, want %q", book.Status, types.StatusGenerated)
	}
	if book.Body != longBody {
		t.Error("Body should come from the second attempt")
	}
}

func TestGenerateWhitespaceOnlyResponseRejected(t *testing.T) {
	// Over 500 raw bytes but empty once trimmed.
	padded := strings.Repeat(" \n\t", 300)
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results: []llm.FakeResult{
			{Text: padded},
			{Text: padded},
			{Text: padded},
		},
	}
	gen := New(registryWith(openai), nil)

	book, err := gen.Generate(context.Background(), testRequest("Healthy Living Tips"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if openai.CallCount() != 3 {
		t.Errorf("CallCount = %d, want 3", openai.CallCount())
	}
	if book.Status != types.StatusDegraded {
		t.Errorf("Status = %q, want %q", book.Status, types.StatusDegraded)
	}
}

func TestGenerateSessionsAreFreshPerAttempt(t *testing.T) {
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results: []llm.FakeResult{
			{Err: errors.New("boom")},
			{Err: errors.New("boom")},
			{Err: errors.New("boom")},
		},
	}
	gen := New(registryWith(openai), nil)

	if _, err := gen.Generate(context.Background(), testRequest("Healthy Living Tips")); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	calls := openai.Calls()
	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}
	seen := make(map[string]bool)
	for i, call := range calls {
		if !strings.HasPrefix(call.Session, "book-") {
			t.Errorf("session %q missing prefix", call.Session)
		}
		wantSuffix := []string{"-1", "-2", "-3"}[i]
		if !strings.HasSuffix(call.Session, wantSuffix) {
			t.Errorf("attempt %d session = %q, want suffix %q", i+1, call.Session, wantSuffix)
		}
		if seen[call.Session] {
			t.Errorf("session %q reused across attempts", call.Session)
		}
		seen[call.Session] = true
	}
}

func TestGenerateStoreFailureStillReturnsBook(t *testing.T) {
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results:      []llm.FakeResult{{Text: longBody}},
	}
	store := &memStore{err: errors.New("connection refused")}
	gen := New(registryWith(openai), store)

	book, err := gen.Generate(context.Background(), testRequest("Healthy Living Tips"))
	if err != nil {
		t.Fatalf("a store failure must not fail the pipeline: %v", err)
	}
	if book == nil || book.Body != longBody {
		t.Error("book should be returned despite the store failure")
	}
}

func TestGenerateNilStore(t *testing.T) {
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results:      []llm.FakeResult{{Text: longBody}},
	}
	gen := New(registryWith(openai), nil)

	if _, err := gen.Generate(context.Background(), testRequest("Healthy Living Tips")); err != nil {
		t.Fatalf("Generate() with nil store error = %v", err)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	openai := &llm.FakeClient{
		ProviderName: llm.ProviderOpenAI,
		Results:      []llm.FakeResult{{Text: longBody}},
	}
	store := &memStore{}
	gen := New(registryWith(openai), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	book, err := gen.Generate(ctx, testRequest("Healthy Living Tips"))
	if err == nil {
		t.Fatal("Generate() with a cancelled context must error")
	}
	if book != nil {
		t.Error("no book should be returned on cancellation")
	}
	if openai.CallCount() != 0 {
		t.Errorf("no provider calls expected, got %d", openai.CallCount())
	}
	if len(store.saved) != 0 {
		t.Error("nothing should be persisted on cancellation")
	}
}

func TestGenerateMissingProviderFallsBack(t *testing.T) {
	// Only Gemini registered; the default retries want OpenAI, which is
	// absent, so every attempt fails and the fallback covers it.
	gemini := &llm.FakeClient{
		ProviderName: llm.ProviderGemini,
		Results:      []llm.FakeResult{{Err: errors.New("quota exceeded")}},
	}
	gen := New(registryWith(gemini), nil)

	book, err := gen.Generate(context.Background(), testRequest("A Creative Short Story"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if book.Status != types.StatusDegraded {
		t.Errorf("Status = %q, want %q", book.Status, types.StatusDegraded)
	}
}

func TestGenerateIDsAreUnique(t *testing.T) {
	seen := make(map[uuid.UUID]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := uuid.New()
		if seen[id] {
			t.Fatalf("duplicate ID after %d generations: %s", i, id)
		}
		seen[id] = true
	}
}

func TestBuildPrompts(t *testing.T) {
	req := testRequest("Healthy Living Tips")
	strategy := SelectStrategy(req.Topic, req.Tier)

	system, user := buildPrompts(req, strategy)
	if system == "" || user == "" {
		t.Fatal("prompts should not be empty")
	}
	if !strings.Contains(user, req.Topic) {
		t.Error("user prompt should contain the topic")
	}
	if !strings.Contains(user, req.Audience) {
		t.Error("user prompt should contain the audience")
	}
	if !strings.Contains(user, "10,000-15,000 words") {
		t.Error("user prompt should contain the tier word band")
	}
}
