package rest

import (
	"net/http"

	"peram-marketplace-service/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService inbound.UserService
}

func NewUserHandler(userService inbound.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// OwnProfile returns the caller's profile
func (h *UserHandler) OwnProfile(c *gin.Context) {
	h.profile(c, principalFrom(c).UserID)
}

// Profile godoc
// @Summary Public user profile
// @Tags Users
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /users/profile/{userId} [get]
func (h *UserHandler) Profile(c *gin.Context) {
	h.profile(c, pathID(c, "userId"))
}

func (h *UserHandler) profile(c *gin.Context, userID uuid.UUID) {
	u, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": u})
}
