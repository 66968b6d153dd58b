package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/curexhq/curex/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Sub          string `json:"sub,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeValidationError(w, "Username and password are required")
		return
	}

	if _, err := s.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "You have successfully registered!",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		Sub:          req.Username,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(common.RefreshTokenHeaderName)
	if token == "" {
		writeError(w, common.ErrInvalidToken)
		return
	}

	pair, err := s.auth.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(common.RefreshTokenHeaderName)
	if token == "" {
		writeError(w, common.ErrInvalidToken)
		return
	}

	if err := s.auth.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully."})
}
