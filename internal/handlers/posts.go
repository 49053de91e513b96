package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreatePostRequest is the body of POST /api/post.
type CreatePostRequest struct {
	Content string `json:"content" binding:"required" example:"Open my own bakery"`
	// AuthorID is used when no token names the author. Defaults to the configured author.
	AuthorID *int `json:"authorId,omitempty" example:"1"`
}

// @Summary      List vision posts
// @Description  Newest first, each with its author.
// @Tags         posts
// @Produce      json
// @Success      200  {array}   models.Post
// @Failure      500  {object}  map[string]string
// @Router       /api/posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.ListPosts(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListPosts, "post_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary      Create a vision post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePostRequest  true  "Post"
// @Success      201   {object}  models.Post
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string  "store failure, including an unknown author"
// @Router       /api/post [post]
// @Security     BearerAuth
func (h *Handler) createPost(c *gin.Context) {
	var input CreatePostRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errContentRequired); !ok {
		return
	}
	authorID := h.resolveAuthor(c, input.AuthorID)

	p, err := h.services.CreatePost(c.Request.Context(), authorID, input.Content)
	if err != nil {
		if isValidationErr(err) {
			h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "post_create_invalid", err, "author_id", authorID)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreatePost, "post_create_failed", err, "author_id", authorID)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// resolveAuthor picks the token subject, then the body field, then the configured default.
func (h *Handler) resolveAuthor(c *gin.Context, fromBody *int) int {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int); ok && id > 0 {
			return id
		}
	}
	if fromBody != nil {
		return *fromBody
	}
	return h.opts.DefaultAuthorID
}

// @Summary      Update a vision post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Post id"
// @Param        body  body      ContentRequest  true  "New content"
// @Success      200   {object}  models.Post
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string  "store failure, including an unknown id"
// @Router       /api/post/{id} [put]
// @Security     BearerAuth
func (h *Handler) updatePost(c *gin.Context) {
	id, ok := h.parseIDOrBadRequest(c)
	if !ok {
		return
	}
	var input ContentRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errUpdateContentEmpty); !ok {
		return
	}

	p, err := h.services.UpdatePost(c.Request.Context(), id, input.Content)
	if err != nil {
		if isValidationErr(err) {
			h.logAndJSONError(c, http.StatusBadRequest, errUpdateContentEmpty, "post_update_invalid", err, "id", id)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdatePost, "post_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a vision post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string  "store failure, including an unknown id"
// @Router       /api/post/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deletePost(c *gin.Context) {
	id, ok := h.parseIDOrBadRequest(c)
	if !ok {
		return
	}

	if err := h.services.DeletePost(c.Request.Context(), id); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDeletePost, "post_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgPostDeleted})
}
