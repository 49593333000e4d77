package controllers

import (
	"net/http"

	"quill/app/services"

	"go.uber.org/zap"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	responder
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, log *zap.Logger) *CommentController {
	return &CommentController{
		responder:      responder{log: log.Named("controllers.comment")},
		commentService: commentService,
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

// Index lists a post's comments with their authors' details
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}

	comments, err := cc.commentService.ListComments(r.Context(), postID)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, comments)
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}

	var in commentRequest
	if err := decodeJSON(w, r, &in); err != nil {
		cc.sendError(w, r, err)
		return
	}

	comments, err := cc.commentService.AddComment(r.Context(), postID, userID, in.Content)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusCreated, comments)
}

// Update handles editing a comment
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentId", "comment")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}

	var in commentRequest
	if err := decodeJSON(w, r, &in); err != nil {
		cc.sendError(w, r, err)
		return
	}

	comments, err := cc.commentService.EditComment(r.Context(), postID, commentID, userID, in.Content)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, comments)
}

// Delete handles deleting a comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentId", "comment")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}

	if err := cc.commentService.DeleteComment(r.Context(), postID, commentID, userID); err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendMessage(w, http.StatusOK, "Comment deleted successfully")
}
