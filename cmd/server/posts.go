package server

import (
	"net/http"
)

// --- Post handlers ---

func (s *Server) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// getPostHandler returns the post by id. Every direct fetch counts a
// view, so the returned view_count reflects this read.
func (s *Server) getPostHandler(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) listPostsByUserHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListByAuthor(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	feed, err := s.posts.Feed(r.Context(), userID)
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}
	logg.Info("http/posts", "Feed retrieved (user_id anonymized)")
	writeJSON(w, http.StatusOK, feed)
}

// createPostHandler binds the new post to the user in the path; any
// author supplied in the body is ignored.
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	var body req
	if !decodeBody(w, r, "http/posts", &body) {
		return
	}

	post, err := s.posts.Create(r.Context(), r.PathValue("userId"), body.Title, body.Content)
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}

	logg.Info("http/posts", "Post created successfully (user_id anonymized)")
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	var body req
	if !decodeBody(w, r, "http/posts", &body) {
		return
	}

	post, err := s.posts.Update(r.Context(), r.PathValue("id"), body.Title, body.Content)
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, "http/posts", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

// likePostHandler reports whether the like set actually changed.
func (s *Server) likePostHandler(w http.ResponseWriter, r *http.Request) {
	liked, err := s.posts.Like(r.Context(), r.PathValue("postId"), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}

	msg := "Post already liked"
	if liked {
		msg = "Post liked successfully"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) unlikePostHandler(w http.ResponseWriter, r *http.Request) {
	unliked, err := s.posts.Unlike(r.Context(), r.PathValue("postId"), r.PathValue("userId"))
	if err != nil {
		respondError(w, "http/posts", err)
		return
	}

	msg := "Post was not liked"
	if unliked {
		msg = "Post unliked successfully"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
