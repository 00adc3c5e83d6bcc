package handler

import (
	"errors"
	"net/http"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/middleware"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画像アップロードは {ok, url|message} 形式で返す
type UploadHandler struct {
	uc       *usecase.UploadUsecase
	maxBytes int64
}

func NewUploadHandler(uc *usecase.UploadUsecase, maxBytes int64) *UploadHandler {
	return &UploadHandler{uc: uc, maxBytes: maxBytes}
}

type uploadResponse struct {
	OK      bool   `json:"ok"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *UploadHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/upload-image", h.upload)
}

func (h *UploadHandler) upload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxBytes)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, uploadResponse{Message: "file too large"})
		}
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: `no file field named "image"`})
	}
	if fh.Filename == "" {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "no filename"})
	}

	f, err := fh.Open()
	if err != nil {
		middleware.SetErrorCause(c, err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "could not read upload"})
	}
	defer f.Close()

	url, err := h.uc.UploadImage(req.Context(), fh.Filename, f)
	if err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
			return c.JSON(he.Status, uploadResponse{Message: he.Message})
		}
		middleware.SetErrorCause(c, err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "could not save image"})
	}
	return c.JSON(http.StatusOK, uploadResponse{OK: true, URL: url})
}
