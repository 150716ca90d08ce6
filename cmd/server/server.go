package server

import (
	"context"
	"net/http"
	"time"

	config "example.com/socialmedia/internal/init"
	"example.com/socialmedia/internal/logger"
	"example.com/socialmedia/internal/middleware"
	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/service"
	"example.com/socialmedia/internal/store"
)

type Server struct {
	auth     *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	jwtTTL   time.Duration
}

var logg = logger.New()

// NewServer wires the domain services over the given store.
func NewServer(st store.StoreInterface, cfg *config.Config) *Server {
	return &Server{
		auth:     service.NewAuthService(st, cfg.BcryptCost),
		users:    service.NewUserService(st),
		posts:    service.NewPostService(st),
		comments: service.NewCommentService(st),
		jwtTTL:   cfg.JWTTTL,
	}
}

// authenticated gates a handler on any signed-in role.
func authenticated(h http.HandlerFunc) http.Handler {
	return middleware.JWTAuth(middleware.RequireRoles(h,
		models.RoleUser, models.RoleModerator, models.RoleAdmin))
}

// adminOnly gates a handler on the ADMIN role.
func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.JWTAuth(middleware.RequireRoles(h, models.RoleAdmin))
}

// Routes builds the HTTP route table. Public reads carry no middleware;
// everything else goes through the JWT middleware and the role gate
// before any service call runs.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Auth (public)
	mux.HandleFunc("POST /api/auth/signup", s.signupHandler)
	mux.HandleFunc("POST /api/auth/signin", s.signinHandler)

	// Users
	mux.Handle("GET /api/users", adminOnly(s.listUsersHandler))
	mux.Handle("GET /api/users/{id}", authenticated(s.getUserHandler))
	mux.Handle("GET /api/users/username/{username}", authenticated(s.getUserByUsernameHandler))
	mux.Handle("PUT /api/users/{id}", authenticated(s.updateUserHandler))
	mux.Handle("DELETE /api/users/{id}", adminOnly(s.deleteUserHandler))
	mux.Handle("POST /api/users/{subscriberId}/subscribe/{targetId}", authenticated(s.subscribeHandler))
	mux.Handle("POST /api/users/{subscriberId}/unsubscribe/{targetId}", authenticated(s.unsubscribeHandler))
	// Listing routes lead with a literal segment so they cannot collide
	// with the username lookup pattern.
	mux.Handle("GET /api/users/subscriptions/{userId}", authenticated(s.listSubscriptionsHandler))
	mux.Handle("GET /api/users/subscribers/{userId}", authenticated(s.listSubscribersHandler))

	// Posts (reads public, feed and mutations authenticated)
	mux.HandleFunc("GET /api/posts", s.listPostsHandler)
	mux.HandleFunc("GET /api/posts/{id}", s.getPostHandler)
	mux.HandleFunc("GET /api/posts/user/{userId}", s.listPostsByUserHandler)
	mux.Handle("GET /api/posts/feed/{userId}", authenticated(s.getFeedHandler))
	mux.Handle("POST /api/posts/user/{userId}", authenticated(s.createPostHandler))
	mux.Handle("PUT /api/posts/{id}", authenticated(s.updatePostHandler))
	mux.Handle("DELETE /api/posts/{id}", authenticated(s.deletePostHandler))
	mux.Handle("POST /api/posts/{postId}/like/{userId}", authenticated(s.likePostHandler))
	mux.Handle("POST /api/posts/{postId}/unlike/{userId}", authenticated(s.unlikePostHandler))

	// Comments (reads public, mutations authenticated)
	mux.HandleFunc("GET /api/comments", s.listCommentsHandler)
	mux.HandleFunc("GET /api/comments/{id}", s.getCommentHandler)
	mux.HandleFunc("GET /api/comments/post/{postId}", s.listCommentsByPostHandler)
	mux.Handle("POST /api/comments/post/{postId}/user/{userId}", authenticated(s.createCommentHandler))
	mux.Handle("PUT /api/comments/{id}", authenticated(s.updateCommentHandler))
	mux.Handle("DELETE /api/comments/{id}", authenticated(s.deleteCommentHandler))
	mux.Handle("POST /api/comments/{commentId}/like/{userId}", authenticated(s.likeCommentHandler))
	mux.Handle("POST /api/comments/{commentId}/unlike/{userId}", authenticated(s.unlikeCommentHandler))

	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func Run(ctx context.Context, st store.StoreInterface, cfg *config.Config) {
	s := NewServer(st, cfg)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	// --- Start server in a goroutine ---
	go func() {
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			logg.Info("server", "Starting HTTPS server on "+cfg.ServerAddr)
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			logg.Info("server", "Starting HTTP server on "+cfg.ServerAddr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logg.Error("server", "Server stopped unexpectedly", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	logg.Info("server", "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server", "Error during server shutdown", err)
	} else {
		logg.Info("server", "Server stopped gracefully")
	}
}
