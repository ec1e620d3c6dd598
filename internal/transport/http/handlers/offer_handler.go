package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vedran77/lawnpool/internal/service"
	"github.com/vedran77/lawnpool/internal/transport/http/middleware"
)

type OfferHandler struct {
	offerService *service.OfferService
}

func NewOfferHandler(offerService *service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerService.List(r.Context(), parseOfferQuery(r.URL.Query()))
	if err != nil {
		writeDomainError(w, r, "list offers", err)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOfferInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if strings.TrimSpace(input.ProviderID) == "" {
		if id, ok := middleware.GetUserID(r.Context()); ok {
			input.ProviderID = id.String()
		}
	}

	offer, err := h.offerService.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "create offer", err)
		return
	}

	writeJSON(w, http.StatusCreated, offer)
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Offer not found")
		return
	}

	offer, err := h.offerService.Get(r.Context(), offerID)
	if err != nil {
		writeDomainError(w, r, "get offer", err)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// parseOfferQuery ignores malformed filters rather than rejecting the request.
func parseOfferQuery(q url.Values) service.OfferQuery {
	var query service.OfferQuery
	if id, err := uuid.Parse(q.Get("groupId")); err == nil {
		query.GroupID = &id
	}
	if id, err := uuid.Parse(q.Get("providerId")); err == nil {
		query.ProviderID = &id
	}
	if n, ok := parseBound(q.Get("minHomes")); ok {
		query.MinHomes = &n
	}
	if n, ok := parseBound(q.Get("maxHomes")); ok {
		query.MaxHomes = &n
	}
	return query
}

func parseBound(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
