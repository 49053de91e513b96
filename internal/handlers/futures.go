package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentRequest is the body of every create/update route.
type ContentRequest struct {
	Content string `json:"content" binding:"required" example:"Run a full marathon by 2030"`
}

// @Summary      List future entries
// @Tags         futures
// @Produce      json
// @Success      200  {array}   models.Future
// @Failure      500  {object}  map[string]string
// @Router       /api/futures [get]
func (h *Handler) listFutures(c *gin.Context) {
	futures, err := h.services.ListFutures(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListFutures, "future_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, futures)
}

// @Summary      Create a future entry
// @Tags         futures
// @Accept       json
// @Produce      json
// @Param        body  body      ContentRequest  true  "Entry"
// @Success      201   {object}  models.Future
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/future [post]
func (h *Handler) createFuture(c *gin.Context) {
	var input ContentRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errContentRequired); !ok {
		return
	}

	f, err := h.services.CreateFuture(c.Request.Context(), input.Content)
	if err != nil {
		if isValidationErr(err) {
			h.logAndJSONError(c, http.StatusBadRequest, errContentRequired, "future_create_invalid", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateFuture, "future_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// @Summary      Update a future entry
// @Tags         futures
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Entry id"
// @Param        body  body      ContentRequest  true  "New content"
// @Success      200   {object}  models.Future
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string  "store failure, including an unknown id"
// @Router       /api/future/{id} [put]
func (h *Handler) updateFuture(c *gin.Context) {
	id, ok := h.parseIDOrBadRequest(c)
	if !ok {
		return
	}
	var input ContentRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errUpdateContentEmpty); !ok {
		return
	}

	f, err := h.services.UpdateFuture(c.Request.Context(), id, input.Content)
	if err != nil {
		if isValidationErr(err) {
			h.logAndJSONError(c, http.StatusBadRequest, errUpdateContentEmpty, "future_update_invalid", err, "id", id)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateFuture, "future_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, f)
}

// @Summary      Delete a future entry
// @Tags         futures
// @Produce      json
// @Param        id   path      int  true  "Entry id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string  "store failure, including an unknown id"
// @Router       /api/future/{id} [delete]
func (h *Handler) deleteFuture(c *gin.Context) {
	id, ok := h.parseIDOrBadRequest(c)
	if !ok {
		return
	}

	if err := h.services.DeleteFuture(c.Request.Context(), id); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteFuture, "future_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgFutureDeleted})
}
