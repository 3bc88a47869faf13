package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login 手机号登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrPasswordRequired, service.ErrWrongPassword:
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Profile 当前用户信息
// GET /api/v1/user/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.authService.GetUser(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// WechatAuth 发起微信扫码登录
// GET /api/v1/auth/wechat?redirect_uri=xxx
func (h *AuthHandler) WechatAuth(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")

	authURL, err := h.authService.WechatAuthURL(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	c.Redirect(302, authURL)
}

// WechatCallback 微信授权回调
// GET /api/v1/auth/wechat/callback?code=xxx&state=xxx
func (h *AuthHandler) WechatCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		response.ParamError(c, "缺少授权码")
		return
	}

	resp, redirectURI, err := h.authService.WechatLogin(c.Request.Context(), code, state)
	if err != nil {
		switch err {
		case service.ErrWechatNotBound:
			// 带错误标记跳回前端，引导先用手机号登录再绑定
			if redirectURI != "" {
				c.Redirect(302, redirectURI+"?error=wechat_not_bound")
				return
			}
			response.AuthError(c, err.Error())
		default:
			response.AuthError(c, "微信登录失败")
		}
		return
	}

	if redirectURI != "" {
		c.Redirect(302, redirectURI+"?token="+url.QueryEscape(resp.Token))
		return
	}
	response.Success(c, resp)
}

// BindWechat 绑定微信
// POST /api/v1/user/wechat/bind
func (h *AuthHandler) BindWechat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.BindWechat(c.Request.Context(), userID, req.Code); err != nil {
		response.ServerError(c, "绑定失败")
		return
	}

	response.SuccessWithMessage(c, "绑定成功", nil)
}

// CreateUser 管理员录入成员
// POST /api/v1/admin/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.authService.CreateUser(&req)
	if err != nil {
		switch err {
		case service.ErrPhoneExists:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", info)
}

// ListUsers 管理员查看成员名单
// GET /api/v1/admin/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	items, err := h.authService.ListUsers()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
