package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/service"
)

type LikeHandler struct {
	likeService *service.LikeService
	authService *service.AuthService
}

func NewLikeHandler(likeService *service.LikeService, authService *service.AuthService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
		authService: authService,
	}
}

// LikeCheckin 点赞打卡
// POST /api/v1/checkins/:id/like
func (h *LikeHandler) LikeCheckin(c *gin.Context) {
	h.add(c, model.TargetCheckin)
}

// UnlikeCheckin 取消点赞打卡
// DELETE /api/v1/checkins/:id/like
func (h *LikeHandler) UnlikeCheckin(c *gin.Context) {
	h.remove(c, model.TargetCheckin)
}

// LikeComment 点赞评论
// POST /api/v1/comments/:id/like
func (h *LikeHandler) LikeComment(c *gin.Context) {
	h.add(c, model.TargetComment)
}

// UnlikeComment 取消点赞评论
// DELETE /api/v1/comments/:id/like
func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	h.remove(c, model.TargetComment)
}

func (h *LikeHandler) add(c *gin.Context, targetType string) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的目标ID")
		return
	}

	user, err := h.authService.GetUserModel(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	if err := h.likeService.Add(c.Request.Context(), user, targetType, targetID); err != nil {
		switch err {
		case service.ErrAlreadyLiked:
			response.DuplicateError(c, err.Error())
		case service.ErrTargetGone:
			response.NotFoundError(c, err.Error())
		case service.ErrInvalidTarget:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "点赞成功", nil)
}

func (h *LikeHandler) remove(c *gin.Context, targetType string) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的目标ID")
		return
	}

	if err := h.likeService.Remove(c.Request.Context(), userID, targetType, targetID); err != nil {
		switch err {
		case service.ErrInvalidTarget:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已取消点赞", nil)
}
