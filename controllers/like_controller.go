package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

// LikeController implements the strict like/unlike toggle on posts.
type LikeController struct {
	db      *gorm.DB
	metrics *utils.Metrics
}

func NewLikeController(db *gorm.DB, metrics *utils.Metrics) *LikeController {
	return &LikeController{db: db, metrics: metrics}
}

// LikePost godoc
// @Summary      Like a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id}/like [post]
func (l *LikeController) LikePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	postID := ctx.Param("id")

	if err := l.db.Select("id").First(&models.Post{}, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "post not found")
			return
		}
		respondInternal(ctx, 50016, "failed to load post", err)
		return
	}

	// The unique index on (user_id, post_id) is the real guard; this check only gives a clean answer.
	var existing int64
	if err := l.db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&existing).Error; err != nil {
		respondInternal(ctx, 50020, "failed to check like", err)
		return
	}
	if existing > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "post already liked")
		return
	}

	if err := l.db.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Error(ctx, http.StatusBadRequest, 40020, "post already liked")
			return
		}
		respondInternal(ctx, 50021, "failed to like post", err)
		return
	}
	l.metrics.RecordEvent("post_liked")

	count, err := countLikes(l.db, postID)
	if err != nil {
		respondInternal(ctx, 50022, "failed to count likes", err)
		return
	}
	utils.Created(ctx, gin.H{
		"message":   "post liked successfully",
		"likeCount": count,
		"isLiked":   true,
	})
}

// UnlikePost godoc
// @Summary      Remove the caller's like from a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id}/like [delete]
func (l *LikeController) UnlikePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	postID := ctx.Param("id")

	res := l.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		respondInternal(ctx, 50023, "failed to unlike post", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40420, "like not found")
		return
	}
	l.metrics.RecordEvent("post_unliked")

	count, err := countLikes(l.db, postID)
	if err != nil {
		respondInternal(ctx, 50022, "failed to count likes", err)
		return
	}
	utils.Success(ctx, gin.H{
		"message":   "post unliked successfully",
		"likeCount": count,
		"isLiked":   false,
	})
}

// ListLikers godoc
// @Summary      List users who liked a post, newest like first
// @Tags         likes
// @Produce      json
// @Param        id     path   string  true   "Post id"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  utils.Page[models.UserSummary]
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id}/likes [get]
func (l *LikeController) ListLikers(ctx *gin.Context) {
	postID := ctx.Param("id")
	if err := l.db.Select("id").First(&models.Post{}, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "post not found")
			return
		}
		respondInternal(ctx, 50016, "failed to load post", err)
		return
	}

	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	var total int64
	if err := l.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		respondInternal(ctx, 50022, "failed to count likes", err)
		return
	}

	var likers []models.UserSummary
	if err := l.db.Table("likes").
		Select("users.id, users.name, users.email").
		Joins("JOIN users ON users.id = likes.user_id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC, likes.id DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Scan(&likers).Error; err != nil {
		respondInternal(ctx, 50024, "failed to retrieve likers", err)
		return
	}

	utils.Success(ctx, utils.NewPage(likers, page, limit, total))
}
