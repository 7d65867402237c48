package handler

import (
	"net/http"
	"strconv"

	"github.com/addisnest/api/internal/application/property"
	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// PropertyHandler handles listing endpoints.
type PropertyHandler struct {
	svc property.Service
}

func NewPropertyHandler(svc property.Service) *PropertyHandler { return &PropertyHandler{svc: svc} }

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreatePropertyRequest
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, PropertyEnvelope{Success: true, Data: p})
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	props, err := h.svc.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertyListEnvelope{Success: true, Count: len(props), Data: props})
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertyEnvelope{Success: true, Data: p})
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role == domain.RoleAdmin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "property deleted"})
}

func (h *PropertyHandler) Promote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Promote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "property promoted"})
}
