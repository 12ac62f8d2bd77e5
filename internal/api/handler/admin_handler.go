package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

// AdminHandler handles administrative operations. All routes behind it are
// gated by the RBAC middleware requiring the ADMIN role.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
}

// Users handles GET /v1/admin/users.
//
// @Summary      List all users (without credentials)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users})
}

// DeleteUser handles DELETE /v1/admin/users/:id. Deletion cascades to the
// user's expenses.
//
// @Summary      Delete a user and all their expenses
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user and their expenses deleted"})
}

// Stats handles GET /v1/admin/stats.
//
// @Summary      Cross-user aggregate statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StatsResult
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
