package server

import (
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signupHandler handles POST /api/auth/signup.
// Expects JSON body: {"username": ..., "email": ..., "password": ...}
func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	var body req
	if !decodeBody(w, r, "http/auth", &body) {
		return
	}

	if _, err := s.auth.SignUp(r.Context(), body.Username, body.Email, body.Password); err != nil {
		respondError(w, "http/auth", err)
		return
	}

	logg.Info("http/auth", "User registered (username anonymized)")
	writeJSON(w, http.StatusOK, messageResponse{Message: "User registered successfully!"})
}

// signinHandler handles POST /api/auth/signin. On success it returns a
// signed token embedding the user's id, username, email and role names.
func (s *Server) signinHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	var body req
	if !decodeBody(w, r, "http/auth", &body) {
		return
	}

	user, roles, err := s.auth.SignIn(r.Context(), body.Username, body.Password)
	if err != nil {
		respondError(w, "http/auth", err)
		return
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"roles":    roles,
		"exp":      time.Now().Add(s.jwtTTL).Unix(),
	})
	tokenStr, err := token.SignedString(secret)
	if err != nil {
		logg.Error("http/auth", "Failed to sign token", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token", "Internal Server Error")
		return
	}

	logg.Info("http/auth", "User signed in (username anonymized)")
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    tokenStr,
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"roles":    roles,
	})
}
