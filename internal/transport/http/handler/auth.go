package handler

import (
	"net/http"

	"github.com/addisnest/api/internal/application/auth"
	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/transport/http/middleware"
)

// AuthHandler handles OTP, password and current-user endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.RequestOTPRequest
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.RequestOTP(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{
		Success:   true,
		Message:   "OTP sent",
		ExpiresAt: res.ExpiresAt,
		OTP:       res.OTP,
	})
}

// VerifyOTP verifies a plain email code. Provider fields are ignored here.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Provider, req.IDToken = "", ""
	h.verify(w, r, req)
}

func (h *AuthHandler) VerifySocialLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" {
		writeError(w, http.StatusBadRequest, "provider is required")
		return
	}
	h.verify(w, r, req)
}

func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request, req auth.VerifyOTPRequest) {
	sess, err := h.svc.VerifyOTP(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSession(w, http.StatusOK, sess)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSession(w, http.StatusCreated, sess)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSession(w, http.StatusOK, sess)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{Success: true, User: u})
}

func writeSession(w http.ResponseWriter, status int, sess *domain.Session) {
	writeJSON(w, status, SessionEnvelope{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      sess.User,
	})
}
