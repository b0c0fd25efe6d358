package rest

import (
	"net/http"

	"peram-marketplace-service/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService inbound.AuthService
	userService inbound.UserService
	logger      zerolog.Logger
}

type AuthHandlerParams struct {
	AuthService inbound.AuthService
	UserService inbound.UserService
	Logger      zerolog.Logger
}

func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authService: params.AuthService,
		userService: params.UserService,
		logger:      params.Logger.With().Str("component", "auth_handler").Logger(),
	}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var body credentialsBody
	if !bindJSON(c, &body) {
		return
	}

	u, err := h.authService.Register(c.Request.Context(), inbound.RegisterRequest{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info().Str("user_id", u.ID.String()).Msg("User registered")
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": u})
}

// Login godoc
// @Summary Log in a user
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var body credentialsBody
	if !bindJSON(c, &body) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), inbound.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user_id":    session.UserID,
	})
}

// Logout godoc
// @Summary Log out the current session
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Profile godoc
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.userService.GetProfile(c.Request.Context(), principalFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
