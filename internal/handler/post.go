package handler

import (
	"errors"
	"net/http"
	"strconv"

	"socialposts/internal/middleware"
	"socialposts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ListComments(c *gin.Context)
	CreateComment(c *gin.Context)
}

type postHandler struct {
	posts    service.PostService
	comments service.CommentService
	users    service.UserService
	logger   *zap.Logger
}

func NewPostHandler(posts service.PostService, comments service.CommentService, users service.UserService, logger *zap.Logger) PostHandler {
	return &postHandler{posts: posts, comments: comments, users: users, logger: logger}
}

type PostRequest struct {
	Text string `json:"text" binding:"required,min=3,max=200"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=200"`
}

// List handles GET /posts. Without user_id it is the feed; with user_id it is
// that user's wall. Both are newest first.
func (h *postHandler) List(c *gin.Context) {
	page, pageSize := parsePaging(c)

	var (
		result interface{}
		err    error
	)
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, parseErr := strconv.ParseInt(userIDStr, 10, 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		result, err = h.posts.ListByUser(userID, page, pageSize)
	} else {
		result, err = h.posts.List(page, pageSize)
	}
	if err != nil {
		h.logger.Error("Failed to list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /posts/:id.
func (h *postHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to get post", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Create handles POST /posts. The owner is the authenticated identity.
func (h *postHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	post, err := h.posts.Create(caller, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to create post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Update handles PUT /posts/:id.
func (h *postHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(id, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to update post", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id, removing the post's comments with it.
func (h *postHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to delete post", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListComments handles GET /posts/:id/comments, oldest first.
func (h *postHandler) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	comments, err := h.comments.ListByPost(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to list comments", zap.Int64("post_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /posts/:id/comments. The author is the
// authenticated identity.
func (h *postHandler) CreateComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	comment, err := h.comments.Create(id, caller, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("Failed to create comment", zap.Int64("post_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// currentUser resolves the token subject to a stored account id. A token whose
// subject no longer exists is as good as no token.
func (h *postHandler) currentUser(c *gin.Context) (int64, bool) {
	username, ok := middleware.CurrentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return 0, false
	}

	user, err := h.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return 0, false
		}
		h.logger.Error("Failed to resolve current user", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
		return 0, false
	}

	return user.ID, true
}

// parsePaging reads page/page_size query parameters, defaulting silently on
// absent or malformed values.
func parsePaging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
