package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hackdash/internal/auth"
	"hackdash/internal/db"
)

const SessionCookieName = "admin_session"

// Mailer is the outbound email surface the handlers depend on.
type Mailer interface {
	SendMagicLink(to, adminName, link string, ttl time.Duration) error
	SendTeamAccepted(to, teamLeader, teamName string) error
	SendTeamRejected(to, teamLeader, teamName, rejectMessage string) error
	SendWorkshopApproved(to, participantName, workshopTrack, institution string) error
	SendWorkshopRejected(to, participantName, workshopTrack, institution, rejectMessage string) error
}

type AuthHandler struct {
	admins        *db.AdminRepository
	authTokens    *db.AuthTokenRepository
	sessions      *db.SessionRepository
	magicService  *auth.MagicLinkService
	mailer        Mailer
	session       *SessionMiddleware
	baseURL       string
	secureCookies bool
	devTokenEcho  bool
}

func NewAuthHandler(
	admins *db.AdminRepository,
	authTokens *db.AuthTokenRepository,
	sessions *db.SessionRepository,
	magicService *auth.MagicLinkService,
	mailer Mailer,
	session *SessionMiddleware,
	baseURL string,
	secureCookies bool,
	devTokenEcho bool,
) *AuthHandler {
	return &AuthHandler{
		admins:        admins,
		authTokens:    authTokens,
		sessions:      sessions,
		magicService:  magicService,
		mailer:        mailer,
		session:       session,
		baseURL:       baseURL,
		secureCookies: secureCookies,
		devTokenEcho:  devTokenEcho,
	}
}

// POST /api/auth/send-magic-link
type SendMagicLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type SendMagicLinkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func (h *AuthHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req SendMagicLinkRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := h.admins.FindByEmail(req.Email)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Admin not found")
		return
	}
	if err != nil {
		slog.Error("error looking up admin", "error", err)
		internalError(w)
		return
	}

	token, err := h.magicService.GenerateToken()
	if err != nil {
		slog.Error("error generating magic link token", "error", err)
		internalError(w)
		return
	}

	if _, err := h.authTokens.Create(req.Email, token, h.magicService.TokenExpiresAt()); err != nil {
		slog.Error("error storing magic link token", "error", err)
		internalError(w)
		return
	}

	adminName := admin.Name
	if adminName == "" {
		adminName = strings.SplitN(admin.Email, "@", 2)[0]
	}

	link := h.baseURL + "/auth/confirm?token=" + token
	if err := h.mailer.SendMagicLink(req.Email, adminName, link, h.magicService.TokenTTL()); err != nil {
		// The token stays valid; failing the request here would lock
		// admins out whenever the mail provider hiccups.
		slog.Error("error sending magic link email", "error", err)
	}

	resp := SendMagicLinkResponse{
		Success: true,
		Message: "Magic link sent successfully",
	}
	if h.devTokenEcho {
		resp.Token = token
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /api/auth/verify-token
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyTokenResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	User       *AuthUser `json:"user"`
	RedirectTo string    `json:"redirect_to"`
}

type AuthUser struct {
	Email string `json:"email"`
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	token, err := h.authTokens.FindUnused(strings.TrimSpace(req.Token))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	if err != nil {
		slog.Error("error finding auth token", "error", err)
		internalError(w)
		return
	}

	// Expired tokens are left unused; they keep failing here until the
	// cleanup service removes the row.
	if time.Now().After(token.ExpiresAt) {
		writeError(w, http.StatusBadRequest, ErrCodeTokenExpired, "Token has expired")
		return
	}

	redeemed, err := h.authTokens.MarkUsedIfUnused(token.ID)
	if err != nil {
		slog.Error("error marking token used", "error", err)
		internalError(w)
		return
	}
	if !redeemed {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}

	admin, err := h.admins.FindByEmail(token.Email)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Admin not found")
		return
	}
	if err != nil {
		slog.Error("error looking up admin", "error", err)
		internalError(w)
		return
	}

	sessionToken, err := h.magicService.GenerateSessionToken()
	if err != nil {
		slog.Error("error generating session token", "error", err)
		internalError(w)
		return
	}

	if _, err := h.sessions.Create(sessionToken, admin.Email, h.magicService.SessionExpiresAt()); err != nil {
		slog.Error("error creating session", "error", err)
		internalError(w)
		return
	}

	h.setSessionCookie(w, sessionToken)

	writeJSON(w, http.StatusOK, VerifyTokenResponse{
		Success:    true,
		Message:    "Token verified successfully",
		User:       &AuthUser{Email: admin.Email},
		RedirectTo: h.baseURL + "/dashboard/admin",
	})
}

// GET /api/auth/check-session
type CheckSessionResponse struct {
	User *AuthUser `json:"user"`
}

// CheckSession always answers 200; "no valid session" is {user: null}, not an
// error, so clients can poll without special-casing failures.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	email, ok := h.session.CurrentAdmin(r)
	if !ok {
		writeJSON(w, http.StatusOK, CheckSessionResponse{User: nil})
		return
	}

	writeJSON(w, http.StatusOK, CheckSessionResponse{User: &AuthUser{Email: email}})
}

// POST /api/auth/logout
type LogoutResponse struct {
	Success bool `json:"success"`
}

// Logout clears the cookie unconditionally; a failed session delete is logged
// but never fails the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			slog.Error("error deleting session on logout", "error", err)
		}
	}

	h.clearSessionCookie(w)

	writeJSON(w, http.StatusOK, LogoutResponse{Success: true})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.magicService.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
