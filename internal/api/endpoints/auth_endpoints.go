package endpoints

import (
	"encoding/json"
	"net/http"

	"room-chat-backend/internal/dto"
	internaljwt "room-chat-backend/internal/jwt"
)

type AuthEndpoints interface {
	Login(http.ResponseWriter, *http.Request) error
}

type authEndpoints struct{}

func NewAuthEndpoints() AuthEndpoints {
	return &authEndpoints{}
}

func (h *authEndpoints) Login(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleLogin,
	})
}

// handleLogin issues a session token for a display name. Failures are
// plain-text bodies, which is what the browser client renders.
func (h *authEndpoints) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return nil
	}

	token, err := internaljwt.CreateToken(req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	return WriteJSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}
