package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

// CommentController manages comments on posts.
type CommentController struct {
	db      *gorm.DB
	metrics *utils.Metrics
}

func NewCommentController(db *gorm.DB, metrics *utils.Metrics) *CommentController {
	return &CommentController{db: db, metrics: metrics}
}

type createCommentRequest struct {
	PostID  string `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListComments godoc
// @Summary      List comments of a post, newest first
// @Tags         comments
// @Produce      json
// @Param        postId path   string  true   "Post id"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  utils.Page[models.Comment]
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /comments/{postId} [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID := ctx.Param("postId")
	if !c.postExists(ctx, postID) {
		return
	}

	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	var total int64
	if err := c.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		respondInternal(ctx, 50030, "failed to count comments", err)
		return
	}

	var comments []models.Comment
	if err := c.db.Preload("Author").
		Where("post_id = ?", postID).
		Order(orderNewestFirst).
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&comments).Error; err != nil {
		respondInternal(ctx, 50031, "failed to retrieve comments", err)
		return
	}

	utils.Success(ctx, utils.NewPage(comments, page, limit, total))
}

// CreateComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body createCommentRequest true "Comment payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req createCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "postId and content are required")
		return
	}
	content := utils.CleanText(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "comment content cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	if !c.postExists(ctx, req.PostID) {
		return
	}

	comment := models.Comment{Content: content, AuthorID: userID, PostID: req.PostID}
	if err := c.db.Create(&comment).Error; err != nil {
		respondInternal(ctx, 50032, "failed to create comment", err)
		return
	}
	c.metrics.RecordEvent("comment_created")

	created, ok := c.loadComment(ctx, comment.ID, true)
	if !ok {
		return
	}
	utils.Created(ctx, gin.H{
		"message": "comment created successfully",
		"comment": created,
	})
}

// UpdateComment replaces the content of a comment owned by the caller.
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string                true  "Comment id"
// @Param        body body  updateCommentRequest  true  "New content"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      403  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /comments/{id} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	var req updateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "content is required")
		return
	}
	content := utils.CleanText(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "comment content cannot be empty")
		return
	}

	comment, ok := c.loadComment(ctx, ctx.Param("id"), false)
	if !ok {
		return
	}
	if !c.requireAuthor(ctx, comment, 40330, "only the author can update this comment") {
		return
	}

	comment.Content = content
	if err := c.db.Save(&comment).Error; err != nil {
		respondInternal(ctx, 50033, "failed to update comment", err)
		return
	}

	updated, ok := c.loadComment(ctx, comment.ID, true)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{
		"message": "comment updated successfully",
		"comment": updated,
	})
}

// DeleteComment godoc
// @Summary      Delete a comment owned by the caller
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Comment id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	comment, ok := c.loadComment(ctx, ctx.Param("id"), false)
	if !ok {
		return
	}
	if !c.requireAuthor(ctx, comment, 40331, "only the author can delete this comment") {
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		respondInternal(ctx, 50034, "failed to delete comment", err)
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted successfully"})
}

func (c *CommentController) postExists(ctx *gin.Context, postID string) bool {
	if err := c.db.Select("id").First(&models.Post{}, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "post not found")
			return false
		}
		respondInternal(ctx, 50016, "failed to load post", err)
		return false
	}
	return true
}

func (c *CommentController) loadComment(ctx *gin.Context, id string, withAuthor bool) (models.Comment, bool) {
	query := c.db
	if withAuthor {
		query = query.Preload("Author")
	}

	var comment models.Comment
	if err := query.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "comment not found")
			return comment, false
		}
		respondInternal(ctx, 50035, "failed to load comment", err)
		return comment, false
	}
	return comment, true
}

func (c *CommentController) requireAuthor(ctx *gin.Context, comment models.Comment, code int, message string) bool {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return false
	}
	if comment.AuthorID != userID {
		utils.Error(ctx, http.StatusForbidden, code, message)
		return false
	}
	return true
}
