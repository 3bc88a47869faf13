package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	authService    *service.AuthService
}

func NewCommentHandler(commentService *service.CommentService, authService *service.AuthService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authService:    authService,
	}
}

// List 获取某条打卡的评论区
// GET /api/v1/checkins/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	checkinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的打卡ID")
		return
	}

	thread, err := h.commentService.ThreadFor(checkinID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, thread)
}

// Create 发表评论或回复
// POST /api/v1/checkins/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	checkinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的打卡ID")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.authService.GetUserModel(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), user, checkinID, &req)
	if err != nil {
		switch err {
		case service.ErrCheckinNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrParentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrParentNotInCheckin:
			response.ParamError(c, err.Error())
		case service.ErrEmptyContent:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", comment)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), userID, commentID); err != nil {
		switch err {
		case service.ErrCommentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotCommentAuthor:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
