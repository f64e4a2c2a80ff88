package delivery

import (
	"net/http"
	"strconv"

	"examprep-backend/internal/content/usecase"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves the public guide and search endpoints
type ContentHandler struct {
	contentUsecase usecase.ContentUsecase
}

func NewContentHandler(contentUsecase usecase.ContentUsecase) *ContentHandler {
	return &ContentHandler{contentUsecase: contentUsecase}
}

// GetGuides lists study guides
// GET /data/guides
func (h *ContentHandler) GetGuides(c *gin.Context) {
	response.OK(c, http.StatusOK, "Guides retrieved successfully", h.contentUsecase.ListGuides(c.Request.Context()))
}

// Search looks for questions and guides
// GET /data/search?q=cell&fuzzy=true
func (h *ContentHandler) Search(c *gin.Context) {
	typoTolerant, _ := strconv.ParseBool(c.Query("fuzzy"))
	result := h.contentUsecase.Search(c.Request.Context(), c.Query("q"), typoTolerant)
	response.OK(c, http.StatusOK, "Search results retrieved successfully", result)
}

// RegisterRoutes mounts the public content endpoints on the /data group
func (h *ContentHandler) RegisterRoutes(data gin.IRouter) {
	data.GET("/guides", h.GetGuides)
	data.GET("/search", h.Search)
}
