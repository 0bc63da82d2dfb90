package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

// AuthController handles signup, login and identity lookup.
type AuthController struct {
	db      *gorm.DB
	tokens  *utils.JWTManager
	metrics *utils.Metrics
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB, tokens *utils.JWTManager, metrics *utils.Metrics) *AuthController {
	return &AuthController{db: db, tokens: tokens, metrics: metrics}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body signupRequest true "Signup payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      409  {object}  utils.ErrorResponse
// @Router       /auth/signup [post]
func (a *AuthController) Signup(ctx *gin.Context) {
	var req signupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "name, valid email and password (min 6 characters) are required")
		return
	}

	name := utils.CleanText(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "name cannot be empty")
		return
	}
	email := normalizeEmail(req.Email)

	var existing int64
	if err := a.db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		respondInternal(ctx, 50001, "failed to check email", err)
		return
	}
	if existing > 0 {
		utils.Error(ctx, http.StatusConflict, 40901, "user already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondInternal(ctx, 50002, "failed to secure password", err)
		return
	}

	user := models.User{Name: name, Email: email, Password: hash}
	if err := a.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Error(ctx, http.StatusConflict, 40901, "user already exists")
			return
		}
		respondInternal(ctx, 50003, "failed to create user", err)
		return
	}

	token, err := a.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondInternal(ctx, 50004, "failed to issue token", err)
		return
	}
	a.metrics.RecordEvent("signup")

	utils.Created(ctx, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login godoc
// @Summary      Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body loginRequest true "Credentials"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /auth/login [post]
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "email and password are required")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid email or password")
			return
		}
		respondInternal(ctx, 50005, "failed to load user", err)
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid email or password")
		return
	}

	token, err := a.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondInternal(ctx, 50004, "failed to issue token", err)
		return
	}
	a.metrics.RecordEvent("login")

	utils.Success(ctx, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		respondInternal(ctx, 50005, "failed to load user", err)
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
