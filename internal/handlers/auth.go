package handlers

import (
	"errors"
	"net/http"

	"vision_runner/internal/models"
	"vision_runner/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New user"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errAllFieldsRequired); !ok {
		return
	}

	user, err := h.services.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		if isValidationErr(err) {
			h.logAndJSONError(c, http.StatusBadRequest, errAllFieldsRequired, "auth_register_invalid", err, "email", input.Email)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errRegister, "auth_register_failed", err, "email", input.Email)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{Message: msgRegistered, User: user})
}

// @Summary      Log in
// @Description  Returns a signed token valid for one hour.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errAllFieldsRequired); !ok {
		return
	}

	token, user, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("auth_login_rejected", "email", input.Email)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLogin, "auth_login_failed", err, "email", input.Email)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Message: msgLoggedIn, Token: token, User: user})
}
