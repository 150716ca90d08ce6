package server

import (
	"net/http"
)

// --- Comment handlers ---

func (s *Server) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.List(r.Context())
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) getCommentHandler(w http.ResponseWriter, r *http.Request) {
	comment, err := s.comments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) listCommentsByPostHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.ListByPost(r.Context(), r.PathValue("postId"))
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Content string `json:"content"`
	}
	var body req
	if !decodeBody(w, r, "http/comments", &body) {
		return
	}

	comment, err := s.comments.Create(r.Context(),
		r.PathValue("postId"), r.PathValue("userId"), body.Content)
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}

	logg.Info("http/comments", "Comment created successfully (IDs anonymized)")
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Content string `json:"content"`
	}
	var body req
	if !decodeBody(w, r, "http/comments", &body) {
		return
	}

	comment, err := s.comments.Update(r.Context(), r.PathValue("id"), body.Content)
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.comments.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, "http/comments", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Comment deleted successfully"})
}

// Like/unlike share the posts' idempotent-toggle contract.
func (s *Server) likeCommentHandler(w http.ResponseWriter, r *http.Request) {
	liked, err := s.comments.Like(r.Context(), r.PathValue("commentId"), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}

	msg := "Comment already liked"
	if liked {
		msg = "Comment liked successfully"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) unlikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	unliked, err := s.comments.Unlike(r.Context(), r.PathValue("commentId"), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/comments", err)
		return
	}

	msg := "Comment was not liked"
	if unliked {
		msg = "Comment unliked successfully"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
