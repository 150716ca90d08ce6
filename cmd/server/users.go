package server

import (
	"net/http"
)

// --- User handlers ---

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) getUserByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// updateUserHandler mutates profile fields only; id, username and email
// in the body are ignored.
func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Bio            string `json:"bio"`
		ProfilePicture string `json:"profile_picture"`
	}
	var body req
	if !decodeBody(w, r, "http/users", &body) {
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), r.PathValue("id"), body.Bio, body.ProfilePicture)
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// --- Subscription handlers ---

func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	_, err := s.users.Subscribe(r.Context(), r.PathValue("subscriberId"), r.PathValue("targetId"))
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	logg.Info("http/users", "Subscription created (user IDs anonymized)")
	writeJSON(w, http.StatusOK, messageResponse{Message: "Subscribed successfully"})
}

func (s *Server) unsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	_, err := s.users.Unsubscribe(r.Context(), r.PathValue("subscriberId"), r.PathValue("targetId"))
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	logg.Info("http/users", "Subscription removed (user IDs anonymized)")
	writeJSON(w, http.StatusOK, messageResponse{Message: "Unsubscribed successfully"})
}

func (s *Server) listSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := s.users.Subscriptions(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) listSubscribersHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := s.users.Subscribers(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/users", err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
