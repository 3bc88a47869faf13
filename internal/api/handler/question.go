package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/service"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// Today 今日题目
// GET /api/v1/questions/today
func (h *QuestionHandler) Today(c *gin.Context) {
	item, err := h.questionService.Today()
	if err != nil {
		switch err {
		case service.ErrQuestionNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// ByDate 指定日期的题目
// GET /api/v1/questions/:date
func (h *QuestionHandler) ByDate(c *gin.Context) {
	item, err := h.questionService.ByDate(c.Param("date"))
	if err != nil {
		switch err {
		case service.ErrQuestionNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// Dates 有题目的日期列表
// GET /api/v1/questions
func (h *QuestionHandler) Dates(c *gin.Context) {
	dates, err := h.questionService.Dates()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dates)
}

// Upsert 管理员设置题目
// PUT /api/v1/admin/questions
func (h *QuestionHandler) Upsert(c *gin.Context) {
	var req dto.UpsertQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.questionService.Upsert(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "保存成功", item)
}
