package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"studentportal/internal/models"
)

func paramUint(c echo.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func successResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, models.APIResponse{
		Message: "Success",
		Code:    200,
		Data:    data,
	})
}

func createdResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, models.APIResponse{
		Message: "Created",
		Code:    201,
		Data:    data,
	})
}

func errorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, models.APIResponse{
		Message: message,
		Code:    status,
	})
}
