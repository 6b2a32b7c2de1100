package web

import (
	"net/http"

	"github.com/kasen/storefront/internal/identity"
)

type SessionHandler struct {
	adapter *identity.Adapter
}

func NewSessionHandler(adapter *identity.Adapter) *SessionHandler {
	return &SessionHandler{adapter: adapter}
}

type SessionResponse struct {
	SignedIn bool           `json:"signed_in"`
	User     *identity.User `json:"user,omitempty"`
}

// SignIn forwards the command to the provider. The session does not change
// synchronously; clients poll Current or subscribe elsewhere.
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.adapter.SignInRequest(r.Context())
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.adapter.SignOutRequest(r.Context())
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

// Current reports the session state. 202 with a loading marker while the
// first provider event has not arrived yet.
func (h *SessionHandler) Current(w http.ResponseWriter, _ *http.Request) {
	user, state := h.adapter.Current()
	switch state {
	case identity.StateUnknown:
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "loading"})
	case identity.StateSignedIn:
		respondJSON(w, http.StatusOK, SessionResponse{SignedIn: true, User: &user})
	default:
		respondJSON(w, http.StatusOK, SessionResponse{SignedIn: false})
	}
}
