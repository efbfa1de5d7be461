package handlers

import (
	"log"
	"net/http"
	"strings"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// Login exchanges a phone number and password for a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Store.GetUserByPhone(c.Request.Context(), req.Phone)
	if apperrors.IsNotFound(err) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}
	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone or password"})
		return
	}

	token, err := generateJWT(h.JWTSecret, user.ID, user.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if err := h.Store.TouchLastSignedIn(c.Request.Context(), user.ID); err != nil {
		log.Printf("Warning: failed to update last sign-in for user %d: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// AuthMiddleware validates the Bearer token and stores the user id in the
// request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UserID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated user is
// active and holds one of roles. The role is read from users once per
// request and cached in the context.
func (h *Handler) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxUserRole)
		if role == "" {
			user, err := h.Store.GetUserByID(c.Request.Context(), currentUserID(c))
			if apperrors.IsNotFound(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			if err != nil {
				respondError(c, err)
				c.Abort()
				return
			}
			if !user.IsActive {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
				return
			}
			role = user.Role
			c.Set(ctxUserRole, role)
		}

		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// RequestID tags every request with an X-Request-ID, reusing the caller's.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func isManager(c *gin.Context) bool {
	role := c.GetString(ctxUserRole)
	return role == models.RoleAdmin || role == models.RoleManager
}

// currentEmployee resolves the employee behind the token, answering 404
// when the user has no employee profile.
func (h *Handler) currentEmployee(c *gin.Context) (*models.Employee, bool) {
	emp, err := h.Store.GetEmployeeByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return emp, true
}
