package document

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"compliance-portal/internal/errors"
	"compliance-portal/internal/middleware"
	"compliance-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service        Service
	maxUploadBytes int64
}

func NewHandler(service Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) ShowDocuments(c *gin.Context) {
	query := ListQuery{
		Search: strings.TrimSpace(c.Query("q")),
		Type:   c.DefaultQuery("type", "all"),
	}

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.ListDocuments(c.Request.Context(), query, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Upload accepts a multipart form with a "file" part and a display "name".
func (h *Handler) Upload(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		c.Error(errors.Unauthorized("Not signed in", nil))
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.Error(errors.New(http.StatusRequestEntityTooLarge, "File is too large", err))
			return
		}
		c.Error(errors.UnprocessableEntity("File is required", err))
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.Error(errors.UnprocessableEntity("Document name is required", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.BadRequest("Could not read file", err))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), sess, Upload{
		Name:        name,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) ShowDocument(c *gin.Context) {
	doc, err := h.service.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	if err := h.service.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
