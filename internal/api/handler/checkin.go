package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/service"
)

type CheckinHandler struct {
	checkinService *service.CheckinService
	authService    *service.AuthService
}

func NewCheckinHandler(checkinService *service.CheckinService, authService *service.AuthService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
		authService:    authService,
	}
}

// Submit 提交今日打卡
// POST /api/v1/checkins
func (h *CheckinHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubmitCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.authService.GetUserModel(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	item, err := h.checkinService.Submit(c.Request.Context(), user, &req)
	if err != nil {
		switch err {
		case service.ErrEmptyCheckin:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "打卡成功", item)
}

// Today 今日打卡状态
// GET /api/v1/checkins/today
func (h *CheckinHandler) Today(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.checkinService.Today(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// Count 累计打卡天数
// GET /api/v1/checkins/count
func (h *CheckinHandler) Count(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.checkinService.Count(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// Mine 我的打卡历史
// GET /api/v1/checkins/mine
func (h *CheckinHandler) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.checkinService.Mine(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// AdminList 管理员按日期检索打卡
// GET /api/v1/admin/checkins?date=2026-08-28&keyword=xxx
func (h *CheckinHandler) AdminList(c *gin.Context) {
	date := c.DefaultQuery("date", service.TodayDate())
	keyword := c.Query("keyword")

	items, err := h.checkinService.ListByDate(date, keyword)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
