package api

import (
	"net/http"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionTokenTTL = 24 * time.Hour

// Login checks credentials and issues both a JWT (stateless clients) and an
// opaque session token cached in Redis (dashboard sessions). The user record
// is cached alongside so the session middleware rarely hits the users table.
func (a *API) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.WithContext(c.Request.Context()).
		Where("username = ?", input.Username).Take(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if user.IsActive != nil && !*user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	jwtToken, err := utils.JwtGenerate(user.ID, user.TenantId, user.Role)
	if err != nil {
		config.LogError(a.Logger, "auth.go", "Login", "JwtGenerate", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	sessionToken := uuid.NewString()
	if err := config.SetRedisValue("Token:"+sessionToken, user.Username, sessionTokenTTL); err != nil {
		config.LogError(a.Logger, "auth.go", "Login", "SetRedisValue", user.Username, err)
	}
	if err := config.SetRedisObject("User:"+user.Username, user, sessionTokenTTL); err != nil {
		config.LogError(a.Logger, "auth.go", "Login", "SetRedisObject", user.Username, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         sessionToken,
		"jwt":           jwtToken,
		"user_id":       user.ID,
		"tenant_id":     user.TenantId,
		"name":          user.Name,
		"role":          user.Role,
	})
}

// Register creates a user inside the admin's tenant unless an explicit
// tenant_id is supplied. Admin only (route-level middleware).
func (a *API) Register(c *gin.Context) {
	var input struct {
		models.NewUser
		TenantId string `json:"tenant_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}

	tenantId := input.TenantId
	if tenantId == "" {
		tenantId, _ = utils.GetTenantIdFromContext(c.Request.Context())
	}
	if tenantId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	role := input.Role
	if role == "" {
		role = models.UserRoleManager
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		TenantId: tenantId,
		Username: input.Username,
		Password: string(hashed),
		Name:     input.Name,
		Role:     role,
		IsActive: utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
