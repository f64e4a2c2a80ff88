package delivery

import (
	"encoding/json"
	"net/http"

	"examprep-backend/internal/admin/usecase"
	authdelivery "examprep-backend/internal/auth/delivery"
	authdomain "examprep-backend/internal/auth/domain"
	"examprep-backend/pkg/apperror"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the back-office endpoints
type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase}
}

type subscriptionRequest struct {
	Status authdomain.SubscriptionStatus `json:"status" binding:"required,oneof=free premium trial"`
}

func bindPatch(c *gin.Context) (json.RawMessage, bool) {
	var patch json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, apperror.Wrap(apperror.KindValidation, "Validation failed", "Request body is not valid JSON", err))
		return nil, false
	}
	return patch, true
}

// GetStats returns content counts
// GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	response.OK(c, http.StatusOK, "Stats retrieved successfully", h.adminUsecase.Stats(c.Request.Context()))
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	response.OK(c, http.StatusOK, "Users retrieved successfully", h.adminUsecase.ListUsers(c.Request.Context()))
}

// SaveUser creates a user or updates one by id
// POST /admin/users, POST /admin/users/:id
func (h *AdminHandler) SaveUser(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	user, err := h.adminUsecase.SaveUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "User saved successfully", user)
}

// POST /admin/users/:id/subscription
func (h *AdminHandler) UpdateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	user, err := h.adminUsecase.UpdateSubscription(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Subscription updated successfully", user)
}

// DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.adminUsecase.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "User deleted successfully", nil)
}

// GET /admin/papers
func (h *AdminHandler) ListPapers(c *gin.Context) {
	response.OK(c, http.StatusOK, "Papers retrieved successfully", h.adminUsecase.ListPapers(c.Request.Context()))
}

// POST /admin/papers, POST /admin/papers/:id
func (h *AdminHandler) SavePaper(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	paper, err := h.adminUsecase.SavePaper(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Paper saved successfully", paper)
}

// SaveQuestion adds or replaces a question inside a paper
// POST /admin/papers/:id/questions
func (h *AdminHandler) SaveQuestion(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	paper, err := h.adminUsecase.SaveQuestion(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Question saved successfully", paper)
}

// DELETE /admin/papers/:id
func (h *AdminHandler) DeletePaper(c *gin.Context) {
	if err := h.adminUsecase.DeletePaper(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Paper deleted successfully", nil)
}

// GET /admin/guides
func (h *AdminHandler) ListGuides(c *gin.Context) {
	response.OK(c, http.StatusOK, "Guides retrieved successfully", h.adminUsecase.ListGuides(c.Request.Context()))
}

// POST /admin/guides, POST /admin/guides/:id
func (h *AdminHandler) SaveGuide(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	guide, err := h.adminUsecase.SaveGuide(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Guide saved successfully", guide)
}

// DELETE /admin/guides/:id
func (h *AdminHandler) DeleteGuide(c *gin.Context) {
	if err := h.adminUsecase.DeleteGuide(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Guide deleted successfully", nil)
}

// RegisterRoutes mounts /admin behind authentication and the admin role check
func (h *AdminHandler) RegisterRoutes(r gin.IRouter, verifier authdelivery.AccessVerifier) {
	admin := r.Group("/admin", authdelivery.AuthMiddleware(verifier), authdelivery.AdminOnly())
	{
		admin.GET("/stats", h.GetStats)

		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.SaveUser)
		admin.POST("/users/:id", h.SaveUser)
		admin.POST("/users/:id/subscription", h.UpdateSubscription)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/papers", h.ListPapers)
		admin.POST("/papers", h.SavePaper)
		admin.POST("/papers/:id", h.SavePaper)
		admin.POST("/papers/:id/questions", h.SaveQuestion)
		admin.DELETE("/papers/:id", h.DeletePaper)

		admin.GET("/guides", h.ListGuides)
		admin.POST("/guides", h.SaveGuide)
		admin.POST("/guides/:id", h.SaveGuide)
		admin.DELETE("/guides/:id", h.DeleteGuide)
	}
}
