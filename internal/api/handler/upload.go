package handler

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/pkg/oss"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/repository"
)

type UploadHandler struct {
	ossClient *oss.Client // 可为 nil，未配置 OSS 时落盘到本地
	cfg       *config.UploadConfig
	userRepo  *repository.UserRepository
}

func NewUploadHandler(ossClient *oss.Client, cfg *config.UploadConfig, userRepo *repository.UserRepository) *UploadHandler {
	return &UploadHandler{
		ossClient: ossClient,
		cfg:       cfg,
		userRepo:  userRepo,
	}
}

// Image 上传打卡配图，返回可访问的 URL
// POST /api/v1/upload/image
func (h *UploadHandler) Image(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "请选择要上传的文件")
		return
	}

	if file.Size > h.cfg.MaxSize {
		response.ParamError(c, fmt.Sprintf("文件不能超过 %dMB", h.cfg.MaxSize/(1024*1024)))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !h.extAllowed(ext) {
		response.ParamError(c, "不支持的文件类型")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	var url string
	if h.ossClient != nil {
		url, err = h.ossClient.UploadCheckinImage(userID, data, ext)
	} else {
		url, err = h.saveLocal(userID, data, ext)
	}
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	response.Success(c, gin.H{"url": url})
}

// Avatar 上传头像并更新用户资料
// POST /api/v1/user/avatar
func (h *UploadHandler) Avatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "请选择要上传的文件")
		return
	}

	if file.Size > h.cfg.MaxSize {
		response.ParamError(c, fmt.Sprintf("文件不能超过 %dMB", h.cfg.MaxSize/(1024*1024)))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !h.extAllowed(ext) {
		response.ParamError(c, "不支持的文件类型")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	var url string
	if h.ossClient != nil {
		url, err = h.ossClient.UploadAvatar(userID, data, ext)
	} else {
		url, err = h.saveLocal(userID, data, ext)
	}
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	user.AvatarURL = url
	if err := h.userRepo.Update(user); err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"avatar_url": url})
}

func (h *UploadHandler) extAllowed(ext string) bool {
	for _, allowed := range h.cfg.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// saveLocal 本地存储，文件名格式与 OSS 保持一致
func (h *UploadHandler) saveLocal(userID int64, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(h.cfg.LocalDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%d_%04d%s", userID, time.Now().Unix(), rand.Intn(10000), ext)
	path := filepath.Join(h.cfg.LocalDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return strings.TrimRight(h.cfg.BaseURL, "/") + "/" + name, nil
}
