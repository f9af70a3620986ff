package handler

import (
	"net/http"

	"github.com/Eursukkul/seasonal-booking/internal/dto"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(public, admin *echo.Group) {
	public.POST("/auth/login", h.Login)
	admin.GET("/users", h.ListUsers)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToLoginResponse(res))
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListAssignees(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponses(users))
}
