package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

// StatsController provides platform wide counters.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate counts. A failing count is reported as 0 rather than failing the endpoint.
// @Summary      Aggregate counters
// @Tags         stats
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /stats [get]
func (s *StatsController) GetStats(ctx *gin.Context) {
	count := func(model interface{}) int64 {
		var n int64
		if err := s.db.Model(model).Count(&n).Error; err != nil {
			utils.Sugar.Warnf("stats count for %T failed: %v", model, err)
			return 0
		}
		return n
	}

	utils.Success(ctx, gin.H{
		"userCount":    count(&models.User{}),
		"postCount":    count(&models.Post{}),
		"commentCount": count(&models.Comment{}),
		"likeCount":    count(&models.Like{}),
		"followCount":  count(&models.Follow{}),
	})
}
