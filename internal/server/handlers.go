package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/bookforge/internal/payments"
	"github.com/jonathan/bookforge/internal/rendering"
	"github.com/jonathan/bookforge/internal/types"
)

// CheckoutRequest represents the request body for /api/checkout
type CheckoutRequest struct {
	Tier  types.Tier `json:"tier"`
	Topic string     `json:"topic"`
}

// EmailRequest represents the request body for /api/capture-email
type EmailRequest struct {
	Email string `json:"email"`
}

// handleGenerateBook validates a book request, runs the generation pipeline,
// and returns the resulting artifact. The pipeline never fails past its own
// boundary, so the only error paths here are bad input and a dropped client.
func (s *Server) handleGenerateBook(w http.ResponseWriter, r *http.Request) {
	var req types.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	book, err := s.pipeline.Generate(r.Context(), req)
	if err != nil {
		// Only context cancellation reaches here; the client is gone.
		s.errorResponse(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	}

	s.jsonResponse(w, http.StatusOK, book)
}

// handleGetBook returns a persisted book by ID
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, ok := s.lookupBook(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, book)
}

// handleListBooks returns recent books, newest first
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 100 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	books, err := s.store.ListBooks(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"books": books,
		"count": len(books),
	})
}

// handleBookPDF renders a persisted book to PDF and streams it back.
func (s *Server) handleBookPDF(w http.ResponseWriter, r *http.Request) {
	book, ok := s.lookupBook(w, r)
	if !ok {
		return
	}

	doc, err := rendering.RenderHTML(book.Body, book.Topic)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Rendering failed: "+err.Error())
		return
	}

	pdf, err := rendering.PrintPDF(r.Context(), doc, 60*time.Second)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "PDF generation failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		// Client went away mid-download; nothing to recover.
		return
	}
}

// handlePricing returns the available pricing tiers
func (s *Server) handlePricing(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"tiers": payments.PricingTiers(),
	})
}

// handleCheckout creates a payment checkout session for a tier
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Tier == "" {
		req.Tier = types.TierPro
	}
	if !req.Tier.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Invalid tier")
		return
	}

	session, err := s.checkout.CreateSession(req.Tier, strings.TrimSpace(req.Topic))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Checkout creation failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, session)
}

// handleWebhook verifies and processes payment provider webhook events
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	event, err := s.checkout.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid webhook")
		return
	}

	if event.Type == "checkout.session.completed" {
		var session struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &session); err == nil {
			log.Printf("Payment completed: %s (tier=%s, topic=%q)",
				session.ID, session.Metadata["tier"], session.Metadata["topic"])
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleCaptureEmail records a customer email for delivery follow-up
func (s *Server) handleCaptureEmail(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		s.errorResponse(w, http.StatusBadRequest, "Valid email required")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "success",
		"email":  email,
	})
}

// lookupBook parses the path ID and loads the book, writing the error
// response itself when anything is off.
func (s *Server) lookupBook(w http.ResponseWriter, r *http.Request) (*types.Book, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Book ID is required")
		return nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid book ID format")
		return nil, false
	}

	book, err := s.store.GetBook(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if book == nil {
		s.errorResponse(w, http.StatusNotFound, "Book not found")
		return nil, false
	}
	return book, true
}
