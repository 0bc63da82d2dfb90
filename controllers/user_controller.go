package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

const defaultSuggestionLimit = 5

// UserController serves profiles and the follow graph.
type UserController struct {
	db      *gorm.DB
	metrics *utils.Metrics
}

func NewUserController(db *gorm.DB, metrics *utils.Metrics) *UserController {
	return &UserController{db: db, metrics: metrics}
}

type profileResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"createdAt"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	IsFollowing    bool      `json:"isFollowing"`
}

type suggestion struct {
	models.UserSummary
	FollowerCount int      `json:"followerCount"`
	Followers     []string `json:"followers"`
}

// GetProfile godoc
// @Summary      Public profile with follow graph ids
// @Tags         users
// @Produce      json
// @Param        userId path  string  true  "User id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /users/profile/{userId} [get]
func (u *UserController) GetProfile(ctx *gin.Context) {
	user, ok := u.loadUser(ctx, ctx.Param("userId"))
	if !ok {
		return
	}

	var followers, following []string
	if err := u.db.Model(&models.Follow{}).
		Where("following_id = ?", user.ID).
		Order(orderNewestFirst).
		Pluck("follower_id", &followers).Error; err != nil {
		respondInternal(ctx, 50040, "failed to load followers", err)
		return
	}
	if err := u.db.Model(&models.Follow{}).
		Where("follower_id = ?", user.ID).
		Order(orderNewestFirst).
		Pluck("following_id", &following).Error; err != nil {
		respondInternal(ctx, 50041, "failed to load following", err)
		return
	}

	isFollowing := false
	if viewerID, ok := getUserID(ctx); ok {
		for _, id := range followers {
			if id == viewerID {
				isFollowing = true
				break
			}
		}
	}

	utils.Success(ctx, profileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		CreatedAt:      user.CreatedAt,
		Followers:      nonNil(followers),
		Following:      nonNil(following),
		FollowerCount:  len(followers),
		FollowingCount: len(following),
		IsFollowing:    isFollowing,
	})
}

// Follow godoc
// @Summary      Follow a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path  string  true  "User to follow"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /users/{userId}/follow [post]
func (u *UserController) Follow(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	targetID := ctx.Param("userId")

	if targetID == viewerID {
		utils.Error(ctx, http.StatusBadRequest, 40040, "cannot follow yourself")
		return
	}
	if _, ok := u.loadUser(ctx, targetID); !ok {
		return
	}

	var existing int64
	if err := u.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", viewerID, targetID).
		Count(&existing).Error; err != nil {
		respondInternal(ctx, 50042, "failed to check follow", err)
		return
	}
	if existing > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40041, "already following this user")
		return
	}

	if err := u.db.Create(&models.Follow{FollowerID: viewerID, FollowingID: targetID}).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Error(ctx, http.StatusBadRequest, 40041, "already following this user")
			return
		}
		respondInternal(ctx, 50043, "failed to follow user", err)
		return
	}
	u.metrics.RecordEvent("user_followed")

	utils.Created(ctx, gin.H{"message": "successfully followed user"})
}

// Unfollow godoc
// @Summary      Unfollow a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path  string  true  "User to unfollow"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /users/{userId}/follow [delete]
func (u *UserController) Unfollow(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	res := u.db.Where("follower_id = ? AND following_id = ?", viewerID, ctx.Param("userId")).Delete(&models.Follow{})
	if res.Error != nil {
		respondInternal(ctx, 50044, "failed to unfollow user", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "not following this user")
		return
	}
	u.metrics.RecordEvent("user_unfollowed")

	utils.Success(ctx, gin.H{"message": "successfully unfollowed user"})
}

// ListFollowers godoc
// @Summary      Users following userId
// @Tags         users
// @Produce      json
// @Param        userId path   string  true   "User id"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  utils.Page[models.UserSummary]
// @Router       /users/{userId}/followers [get]
func (u *UserController) ListFollowers(ctx *gin.Context) {
	u.listEdges(ctx, "follows.following_id", "follows.follower_id")
}

// ListFollowing godoc
// @Summary      Users followed by userId
// @Tags         users
// @Produce      json
// @Param        userId path   string  true   "User id"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  utils.Page[models.UserSummary]
// @Router       /users/{userId}/following [get]
func (u *UserController) ListFollowing(ctx *gin.Context) {
	u.listEdges(ctx, "follows.follower_id", "follows.following_id")
}

// listEdges pages over follow edges matching matchColumn and projects the user on the other side.
func (u *UserController) listEdges(ctx *gin.Context, matchColumn, otherColumn string) {
	userID := ctx.Param("userId")
	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	var total int64
	if err := u.db.Model(&models.Follow{}).Where(matchColumn+" = ?", userID).Count(&total).Error; err != nil {
		respondInternal(ctx, 50045, "failed to count follows", err)
		return
	}

	var users []models.UserSummary
	if err := u.db.Table("follows").
		Select("users.id, users.name, users.email").
		Joins("JOIN users ON users.id = "+otherColumn).
		Where(matchColumn+" = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Scan(&users).Error; err != nil {
		respondInternal(ctx, 50046, "failed to retrieve follows", err)
		return
	}

	utils.Success(ctx, utils.NewPage(users, page, limit, total))
}

// Suggestions godoc
// @Summary      Users the caller does not follow yet, newest first
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Maximum suggestions (1-100)"  default(5)
// @Success      200  {object}  map[string]interface{}
// @Router       /users/suggestions/recommended [get]
func (u *UserController) Suggestions(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	limit := utils.ParseLimit(ctx.Query("limit"), defaultSuggestionLimit)

	followed := u.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)

	var users []models.User
	if err := u.db.Where("id <> ? AND id NOT IN (?)", viewerID, followed).
		Order(orderNewestFirst).
		Limit(limit).
		Find(&users).Error; err != nil {
		respondInternal(ctx, 50047, "failed to load suggestions", err)
		return
	}

	followersOf := map[string][]string{}
	if len(users) > 0 {
		ids := make([]string, len(users))
		for i, user := range users {
			ids[i] = user.ID
		}
		var edges []models.Follow
		if err := u.db.Where("following_id IN ?", ids).Order(orderNewestFirst).Find(&edges).Error; err != nil {
			respondInternal(ctx, 50048, "failed to load followers", err)
			return
		}
		for _, e := range edges {
			followersOf[e.FollowingID] = append(followersOf[e.FollowingID], e.FollowerID)
		}
	}

	data := make([]suggestion, 0, len(users))
	for _, user := range users {
		followers := nonNil(followersOf[user.ID])
		data = append(data, suggestion{
			UserSummary:   user.Summary(),
			FollowerCount: len(followers),
			Followers:     followers,
		})
	}

	utils.Success(ctx, gin.H{"data": data})
}

func (u *UserController) loadUser(ctx *gin.Context, id string) (models.User, bool) {
	var user models.User
	if err := u.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return user, false
		}
		respondInternal(ctx, 50005, "failed to load user", err)
		return user, false
	}
	return user, true
}
