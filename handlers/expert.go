package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"meetio/database/repository"
	expertRepo "meetio/database/repository/expert"
	"meetio/services/catalog"
	"meetio/utils"

	"github.com/gin-gonic/gin"
)

// ExpertHandler exposes the read-only catalog endpoints.
type ExpertHandler struct {
	Svc catalog.Service
}

// NewExpertHandler constructs an ExpertHandler.
func NewExpertHandler(svc catalog.Service) *ExpertHandler {
	return &ExpertHandler{Svc: svc}
}

// GetExperts handles GET /api/experts with pagination, category filter and
// name search.
func (h *ExpertHandler) GetExperts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	result, err := h.Svc.ListExperts(c.Request.Context(), expertRepo.ListQuery{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch experts", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetExpertByID handles GET /api/experts/:id, availability included.
func (h *ExpertHandler) GetExpertByID(c *gin.Context) {
	expert, err := h.Svc.GetExpert(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrExpertNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Expert not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch expert", err.Error())
		return
	}
	c.JSON(http.StatusOK, expert)
}

// GetCategories handles GET /api/experts/categories.
func (h *ExpertHandler) GetCategories(c *gin.Context) {
	categories, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch categories", err.Error())
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}
