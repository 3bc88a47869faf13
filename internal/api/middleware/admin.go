package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/repository"
)

// AdminOnly 管理员校验中间件，需在 Auth 之后使用
func AdminOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			response.AuthError(c, "")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			response.PermissionError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
