package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

// PostController manages CRUD operations and feeds for posts.
type PostController struct {
	db      *gorm.DB
	images  utils.ImageStore
	metrics *utils.Metrics
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB, images utils.ImageStore, metrics *utils.Metrics) *PostController {
	if images == nil {
		images = utils.NopImageStore{}
	}
	return &PostController{db: db, images: images, metrics: metrics}
}

type createPostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Image string `json:"image"`
}

// updatePostRequest uses pointers so absent fields keep their stored value.
type updatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
	Image *string `json:"image"`
}

// ListPosts godoc
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Param        page   query  int  false  "Page number"  default(1)
// @Param        limit  query  int  false  "Page size (1-100)"  default(10)
// @Success      200  {object}  utils.Page[PostView]
// @Router       /posts [get]
func (p *PostController) ListPosts(ctx *gin.Context) {
	viewerID, _ := getUserID(ctx)
	p.listPosts(ctx, p.db.Model(&models.Post{}), viewerID)
}

// ListAuthorPosts lists posts of the user named by ?userId, or of the viewer when absent.
// @Summary      List posts of one author
// @Tags         posts
// @Produce      json
// @Param        userId query  string false "Author id (24 hex characters)"
// @Param        page   query  int    false "Page number"
// @Param        limit  query  int    false "Page size"
// @Success      200  {object}  utils.Page[PostView]
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /posts/author [get]
func (p *PostController) ListAuthorPosts(ctx *gin.Context) {
	viewerID, hasViewer := getUserID(ctx)

	authorID := strings.TrimSpace(ctx.Query("userId"))
	switch {
	case authorID != "":
		if !models.IsValidID(authorID) {
			utils.Error(ctx, http.StatusBadRequest, 40010, "invalid user id")
			return
		}
	case hasViewer:
		authorID = viewerID
	default:
		utils.Error(ctx, http.StatusUnauthorized, 40110, "user id required or authenticate")
		return
	}

	p.listPosts(ctx, p.db.Model(&models.Post{}).Where("author_id = ?", authorID), viewerID)
}

func (p *PostController) listPosts(ctx *gin.Context, query *gorm.DB, viewerID string) {
	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		respondInternal(ctx, 50010, "failed to count posts", err)
		return
	}

	var posts []models.Post
	if err := query.Session(&gorm.Session{}).
		Preload("Author").
		Order(orderNewestFirst).
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&posts).Error; err != nil {
		respondInternal(ctx, 50011, "failed to retrieve posts", err)
		return
	}

	views, err := enrichPosts(p.db, posts, viewerID)
	if err != nil {
		respondInternal(ctx, 50012, "failed to load likes", err)
		return
	}

	utils.Success(ctx, utils.NewPage(views, page, limit, total))
}

// GetPost godoc
// @Summary      Get one post with like metadata
// @Tags         posts
// @Produce      json
// @Param        id   path  string  true  "Post id"
// @Success      200  {object}  PostView
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id} [get]
func (p *PostController) GetPost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"), true)
	if !ok {
		return
	}

	viewerID, _ := getUserID(ctx)
	view, err := enrichPost(p.db, post, viewerID)
	if err != nil {
		respondInternal(ctx, 50012, "failed to load likes", err)
		return
	}
	utils.Success(ctx, view)
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body createPostRequest true "Post payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /posts [post]
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "title and body are required")
		return
	}

	title, body := utils.CleanText(req.Title), utils.CleanText(req.Body)
	if title == "" || body == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "title and body cannot be empty")
		return
	}
	image, ok := normalizeImageURL(req.Image)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40013, "image must be an http(s) url")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	post := models.Post{Title: title, Body: body, Image: image, AuthorID: userID}
	if err := p.db.Create(&post).Error; err != nil {
		respondInternal(ctx, 50013, "failed to create post", err)
		return
	}
	p.metrics.RecordEvent("post_created")

	created, ok := p.loadPost(ctx, post.ID, true)
	if !ok {
		return
	}
	utils.Created(ctx, gin.H{
		"message": "post created successfully",
		"post":    PostView{Post: created},
	})
}

// UpdatePost godoc
// @Summary      Partially update a post owned by the caller
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string            true  "Post id"
// @Param        body body  updatePostRequest true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      403  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id} [put]
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req updatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid request payload")
		return
	}

	var title, body string
	if req.Title != nil {
		if title = utils.CleanText(*req.Title); title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40015, "title cannot be empty")
			return
		}
	}
	if req.Body != nil {
		if body = utils.CleanText(*req.Body); body == "" {
			utils.Error(ctx, http.StatusBadRequest, 40016, "body cannot be empty")
			return
		}
	}
	var image string
	if req.Image != nil {
		var ok bool
		if image, ok = normalizeImageURL(*req.Image); !ok {
			utils.Error(ctx, http.StatusBadRequest, 40013, "image must be an http(s) url")
			return
		}
	}

	post, ok := p.loadPost(ctx, ctx.Param("id"), false)
	if !ok {
		return
	}
	if !p.requireOwner(ctx, post, 40310, "only the author can update this post") {
		return
	}

	previousImage := post.Image
	if req.Title != nil {
		post.Title = title
	}
	if req.Body != nil {
		post.Body = body
	}
	if req.Image != nil {
		post.Image = image
	}
	if err := p.db.Save(&post).Error; err != nil {
		respondInternal(ctx, 50014, "failed to update post", err)
		return
	}
	if previousImage != post.Image {
		p.discardImage(ctx, previousImage)
	}

	updated, ok := p.loadPost(ctx, post.ID, true)
	if !ok {
		return
	}
	view, err := enrichPost(p.db, updated, post.AuthorID)
	if err != nil {
		respondInternal(ctx, 50012, "failed to load likes", err)
		return
	}
	utils.Success(ctx, gin.H{
		"message": "post updated successfully",
		"post":    view,
	})
}

// DeletePost godoc
// @Summary      Delete a post owned by the caller, with its comments and likes
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id} [delete]
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"), false)
	if !ok {
		return
	}
	if !p.requireOwner(ctx, post, 40311, "only the author can delete this post") {
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		respondInternal(ctx, 50015, "failed to delete post", err)
		return
	}
	p.discardImage(ctx, post.Image)
	p.metrics.RecordEvent("post_deleted")

	utils.Success(ctx, gin.H{"message": "post deleted successfully"})
}

// loadPost answers 404/500 itself and reports whether the caller may continue.
func (p *PostController) loadPost(ctx *gin.Context, id string, withAuthor bool) (models.Post, bool) {
	query := p.db
	if withAuthor {
		query = query.Preload("Author")
	}

	var post models.Post
	if err := query.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "post not found")
			return post, false
		}
		respondInternal(ctx, 50016, "failed to load post", err)
		return post, false
	}
	return post, true
}

func (p *PostController) requireOwner(ctx *gin.Context, post models.Post, code int, message string) bool {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return false
	}
	if post.AuthorID != userID {
		utils.Error(ctx, http.StatusForbidden, code, message)
		return false
	}
	return true
}

// discardImage removes a no longer referenced image. Failures are logged and never reach the client.
func (p *PostController) discardImage(ctx *gin.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	// Image URLs are caller supplied, so another post may point at the same object.
	var refs int64
	if err := p.db.Model(&models.Post{}).Where("image = ?", imageURL).Count(&refs).Error; err != nil {
		utils.Logger.Warn("failed to count image references", zap.String("image", imageURL), zap.Error(err))
		return
	}
	if refs > 0 {
		return
	}
	if err := p.images.DeleteImage(ctx.Request.Context(), imageURL); err != nil {
		level := zap.WarnLevel
		if errors.Is(err, utils.ErrForeignImage) {
			level = zap.DebugLevel
		}
		utils.Logger.Log(level, "failed to delete post image", zap.String("image", imageURL), zap.Error(err))
	}
}

// normalizeImageURL accepts an empty value or an absolute http(s) URL.
func normalizeImageURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return raw, true
}
