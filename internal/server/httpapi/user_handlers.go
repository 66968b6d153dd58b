package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/curexhq/curex/internal/common"
	"github.com/curexhq/curex/internal/server/models"
)

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrInvalidToken)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	requester, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrInvalidToken)
		return
	}

	users, err := s.users.List(r.Context(), requester)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	requester, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrInvalidToken)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		writeValidationError(w, "User id must be an integer")
		return
	}

	if err := s.users.Delete(r.Context(), requester, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User with id %d was deleted successfully.", id),
	})
}
