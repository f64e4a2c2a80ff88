package delivery

import (
	"net/http"

	authdelivery "examprep-backend/internal/auth/delivery"
	"examprep-backend/internal/practice/usecase"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// PracticeHandler serves performance and leaderboard endpoints
type PracticeHandler struct {
	practiceUsecase usecase.PracticeUsecase
}

func NewPracticeHandler(practiceUsecase usecase.PracticeUsecase) *PracticeHandler {
	return &PracticeHandler{practiceUsecase: practiceUsecase}
}

// GetPerformance lists the caller's attempts
// GET /data/performance
func (h *PracticeHandler) GetPerformance(c *gin.Context) {
	identity, _ := authdelivery.Identity(c)

	entries, err := h.practiceUsecase.ListPerformance(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Performance data retrieved successfully", entries)
}

// SavePerformance records an attempt
// POST /data/performance
func (h *PracticeHandler) SavePerformance(c *gin.Context) {
	var req usecase.SavePerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	identity, _ := authdelivery.Identity(c)
	entry, err := h.practiceUsecase.SavePerformance(c.Request.Context(), identity, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Performance data saved successfully", entry)
}

// GetLeaderboard returns the top scores
// GET /data/leaderboard
func (h *PracticeHandler) GetLeaderboard(c *gin.Context) {
	response.OK(c, http.StatusOK, "Leaderboard retrieved successfully", h.practiceUsecase.Leaderboard(c.Request.Context()))
}

// UpdateLeaderboard submits a score
// POST /data/leaderboard
func (h *PracticeHandler) UpdateLeaderboard(c *gin.Context) {
	var req usecase.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	board, err := h.practiceUsecase.SubmitScore(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Leaderboard updated successfully", board)
}

// RegisterRoutes mounts the practice endpoints on the /data group
func (h *PracticeHandler) RegisterRoutes(data gin.IRouter, verifier authdelivery.AccessVerifier) {
	data.GET("/performance", authdelivery.AuthMiddleware(verifier), h.GetPerformance)
	data.POST("/performance", authdelivery.AuthMiddleware(verifier), h.SavePerformance)
	data.GET("/leaderboard", h.GetLeaderboard)
	data.POST("/leaderboard", h.UpdateLeaderboard)
}
