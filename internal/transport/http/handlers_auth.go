package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storefront/internal/platform/middleware"
	"storefront/internal/remote"
	"storefront/internal/transport/http/shared"
	derrors "storefront/pkg/domain-errors"
)

type sessionPayload struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	Role          string `json:"role,omitempty"`
	Resolving     bool   `json:"resolving"`
}

func (h *Handler) sessionPayload() sessionPayload {
	current := h.sessions.Current()
	return sessionPayload{
		Authenticated: current.Authenticated,
		UserID:        current.UserID,
		DisplayName:   current.DisplayName,
		Role:          string(current.Role),
		Resolving:     h.sessions.Resolving(),
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req remote.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Fullname == "" || req.PhoneNumber == "" || req.Password == "" {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "name, phone number and password are required"))
		return
	}
	if req.Password != req.RetypePassword {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "passwords do not match"))
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.logError(r, "register failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	RoleID      int64  `json:"role_id"`
}

// handleLogin exchanges credentials for a token, establishes the session, and
// reports where to navigate next. The session transition runs the cart merge
// and pending-addition replay before this handler reads the redirect slot, so
// the consumed target is always the post-merge one.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.PhoneNumber == "" || req.Password == "" {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "phone number and password are required"))
		return
	}
	if req.RoleID == 0 {
		req.RoleID = 1
	}

	token, err := h.auth.Login(ctx, remote.LoginRequest{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		RoleID:      req.RoleID,
	})
	if err != nil {
		h.logError(r, "login failed", err)
		shared.WriteError(w, err)
		return
	}

	current, err := h.sessions.Login(ctx, token)
	if err != nil {
		h.logError(r, "session establishment failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"user": sessionPayload{
			Authenticated: true,
			UserID:        current.UserID,
			DisplayName:   current.DisplayName,
			Role:          string(current.Role),
		},
		"redirect_to": h.cart.ConsumeRedirect(ctx),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	shared.WriteJSON(w, http.StatusOK, map[string]string{"redirect_to": "/"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.sessionPayload())
}

// handleUpdateProfile forwards profile edits for the logged-in user. The route
// sits behind RequireSession; the user ID comes from the session, never from
// the request body.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(h.sessions.Current().UserID, 10, 64)
	if err != nil {
		shared.WriteError(w, derrors.Wrap(derrors.CodeInternal, "session holds an unknown user reference", err))
		return
	}

	var req remote.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.auth.UpdateUser(r.Context(), userID, req)
	if err != nil {
		h.logError(r, "profile update failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
}
