package routes

import (
	"encoding/json"
	"net/http"

	"quill/app/auth"
	"quill/app/controllers"
	"quill/app/middleware"
	"quill/app/repositories"
	"quill/app/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SetupRoutes wires repositories, services and controllers over db and
// returns the application's router.
func SetupRoutes(db *badger.DB, tokens *auth.Tokens, passwords *auth.Passwords, log *zap.Logger) *mux.Router {
	userRepo := repositories.NewBadgerUserRepository(db)
	postRepo := repositories.NewBadgerPostRepository(db)

	userService := services.NewUserService(userRepo, passwords, tokens, log)
	postService := services.NewPostService(postRepo, userRepo, log)
	commentService := services.NewCommentService(postRepo, userRepo, log)
	feedService := services.NewFeedService(postRepo, userRepo, log)

	authController := controllers.NewAuthController(userService, log)
	postController := controllers.NewPostController(postService, feedService, log)
	commentController := controllers.NewCommentController(commentService, log)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log.Named("http")))
	router.Use(middleware.Recoverer(log.Named("http")))
	router.Use(middleware.Authenticate(tokens, log.Named("auth")))

	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/health", health).Methods("GET")

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	// Authentication endpoints
	authAPI := api.PathPrefix("/auth").Subrouter()
	authAPI.HandleFunc("/register", authController.Register).Methods("POST")
	authAPI.HandleFunc("/login", authController.Login).Methods("POST")
	authAPI.HandleFunc("/check-username", authController.CheckUserName).Methods("GET")
	authAPI.Handle("/user", private(authController.Profile)).Methods("GET")
	authAPI.Handle("/user", private(authController.UpdateProfile)).Methods("PATCH")
	authAPI.Handle("/change-password", private(authController.ChangePassword)).Methods("PATCH")

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.Handle("/create", private(postController.Create)).Methods("POST")
	posts.HandleFunc("/user/{userId}", postController.ByAuthor).Methods("GET")
	posts.HandleFunc("/{postId}", postController.Show).Methods("GET")
	posts.Handle("/{postId}", private(postController.Update)).Methods("PATCH")
	posts.Handle("/{postId}", private(postController.Delete)).Methods("DELETE")
	posts.Handle("/{postId}/like", private(postController.Like)).Methods("PATCH")
	posts.HandleFunc("/{postId}/likes", postController.Likes).Methods("GET")

	// Comments API endpoints
	posts.Handle("/{postId}/comment", private(commentController.Create)).Methods("POST")
	posts.HandleFunc("/{postId}/comments", commentController.Index).Methods("GET")
	posts.Handle("/{postId}/comment/{commentId}", private(commentController.Update)).Methods("PATCH")
	posts.Handle("/{postId}/comment/{commentId}", private(commentController.Delete)).Methods("DELETE")

	return router
}

func private(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h)
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
