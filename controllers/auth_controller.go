package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/archalley/forum/models"
	"github.com/archalley/forum/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles account registration, login and session endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a local account with a bcrypt-hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username   string `json:"username" binding:"required,min=3,max=64"`
		Email      string `json:"email"`
		Password   string `json:"password" binding:"required,min=8,max=72"`
		Profession string `json:"profession"`
		Company    string `json:"company"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !validUsername(username) {
		utils.FailWithDetails(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload",
			gin.H{"username": "username may contain letters, digits, '-' and '_' only"})
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusConflict, utils.CodeConflict, "username already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		failFromError(ctx, err)
		return
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Profession:   strings.TrimSpace(req.Profession),
		Company:      strings.TrimSpace(req.Company),
	}
	if err := a.db.Create(&user).Error; err != nil {
		failFromError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		failFromError(ctx, err)
		return
	}
	utils.JSON(ctx, http.StatusCreated, gin.H{"token": token, "user": publicUser(user)})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid username or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		failFromError(ctx, err)
		return
	}
	utils.JSON(ctx, http.StatusOK, gin.H{"token": token, "user": publicUser(user)})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid authorization header")
		return
	}
	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.JSON(ctx, http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.Preload("Badges.Badge").First(&user, "id = ?", userID).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, utils.CodeNotFound, "user not found")
		return
	}
	utils.JSON(ctx, http.StatusOK, publicUser(user))
}

// UpdateProfile lets the authenticated user change basic profile fields.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Email      *string `json:"email"`
		AvatarURL  *string `json:"avatarUrl"`
		Profession *string `json:"profession"`
		Company    *string `json:"company"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, utils.CodeNotFound, "user not found")
		return
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Profession != nil {
		user.Profession = utils.Sanitize(strings.TrimSpace(*req.Profession))
	}
	if req.Company != nil {
		user.Company = utils.Sanitize(strings.TrimSpace(*req.Company))
	}
	if err := a.db.Save(&user).Error; err != nil {
		failFromError(ctx, err)
		return
	}
	utils.JSON(ctx, http.StatusOK, publicUser(user))
}

func validUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func publicUser(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"avatarUrl":  user.AvatarURL,
		"profession": user.Profession,
		"company":    user.Company,
		"createdAt":  user.CreatedAt,
	}
}
