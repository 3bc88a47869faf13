package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/service"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// ListByDate 某日回顾页。未登录时 userID 为 0，不标注点赞状态。
// GET /api/v1/feed?date=2026-08-28
func (h *FeedHandler) ListByDate(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	date := c.DefaultQuery("date", service.TodayDate())

	resp, err := h.feedService.ListByDate(date, userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// GetCheckin 单条打卡的完整视图
// GET /api/v1/feed/checkins/:id
func (h *FeedHandler) GetCheckin(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	checkinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的打卡ID")
		return
	}

	view, err := h.feedService.BuildView(checkinID, userID)
	if err != nil {
		switch err {
		case service.ErrCheckinNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, view)
}
