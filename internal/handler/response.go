package handler

import (
	"net/http"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/middleware"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type OKResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func errorJSON(msg string) ErrorResponse {
	return ErrorResponse{Status: "error", Message: msg}
}

func okJSON(msg string) OKResponse {
	return OKResponse{Status: "ok", Message: msg}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	he, ok := usecase.AsHTTPError(err)
	if ok && he.Status < http.StatusInternalServerError {
		return c.JSON(he.Status, errorJSON(he.Message))
	}

	//500 原因はログにだけ残す
	middleware.SetErrorCause(c, err)
	return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
}
