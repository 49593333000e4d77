package controllers

import (
	"net/http"
	"strconv"

	"quill/app/models"
	"quill/app/services"

	"go.uber.org/zap"
)

// PostController handles HTTP requests for blog posts and likes
type PostController struct {
	responder
	postService *services.PostService
	feedService *services.FeedService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, feedService *services.FeedService, log *zap.Logger) *PostController {
	return &PostController{
		responder:   responder{log: log.Named("controllers.post")},
		postService: postService,
		feedService: feedService,
	}
}

// Index handles the paginated feed
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := positiveInt(query.Get("page"), services.DefaultPage)

	sizeParam := query.Get("itemsPerPage")
	if sizeParam == "" {
		sizeParam = query.Get("pageSize")
	}
	pageSize := positiveInt(sizeParam, services.DefaultPageSize)

	feed, err := pc.feedService.ListFeed(r.Context(), page, pageSize)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, feed)
}

// Create handles creating a new post owned by the caller
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	var in models.PostPatch
	if err := decodeJSON(w, r, &in); err != nil {
		pc.sendError(w, r, err)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), userID, in.Title, in.Content)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, post)
}

// ByAuthor lists every post written by the user in the path
func (pc *PostController) ByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r, "userId", "user")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	posts, err := pc.postService.ListByAuthor(r.Context(), authorID)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, posts)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	post, err := pc.postService.GetPost(r.Context(), postID)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Update handles editing a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	var patch models.PostPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		pc.sendError(w, r, err)
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), postID, userID, patch)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	if err := pc.postService.DeletePost(r.Context(), postID, userID); err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendMessage(w, http.StatusOK, "Post deleted successfully")
}

// Like toggles the caller's like on a post
func (pc *PostController) Like(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	likes, err := pc.postService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, likes)
}

// Likes lists a post's likes with the liking users' details
func (pc *PostController) Likes(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	likes, err := pc.postService.ListLikes(r.Context(), postID)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, likes)
}

// positiveInt parses s, falling back to def when s is missing, malformed or
// below 1.
func positiveInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}
