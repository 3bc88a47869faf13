package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/jwt"
	"github.com/ai798/checkin_go_server/internal/pkg/oauth"
	"github.com/ai798/checkin_go_server/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrWrongPassword    = errors.New("密码错误")
	ErrPasswordRequired = errors.New("该账号需要密码登录")
	ErrPhoneExists      = errors.New("手机号已存在")
	ErrWechatNotBound   = errors.New("微信未绑定账号")
	ErrWechatDisabled   = errors.New("微信登录未启用")
)

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
	wechat   *oauth.WechatOAuth
	states   *oauth.StateStore
}

// NewAuthService 创建认证服务。wechat 和 states 可为 nil（未配置微信登录时）。
func NewAuthService(
	userRepo *repository.UserRepository,
	cfg *config.Config,
	wechat *oauth.WechatOAuth,
	states *oauth.StateStore,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		wechat:   wechat,
		states:   states,
	}
}

// Login 手机号登录。成员名单由管理员预先录入，普通成员免密，
// 设置了密码的账号（管理员）必须校验密码。
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByPhone(req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.PasswordHash != nil {
		if req.Password == "" {
			return nil, ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrWrongPassword
		}
	}

	return s.issueToken(user)
}

// GetUser 获取当前用户信息
func (s *AuthService) GetUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

// GetUserModel 获取用户实体（内部用）
func (s *AuthService) GetUserModel(userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser 管理员录入成员
func (s *AuthService) CreateUser(req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	user := &model.User{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Role:  req.Role,
	}
	if user.Role == "" {
		user.Role = model.RoleMember
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneExists
		}
		return nil, err
	}

	return toUserInfo(user), nil
}

// ListUsers 管理员查看成员名单
func (s *AuthService) ListUsers() ([]*dto.UserInfo, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	items := make([]*dto.UserInfo, 0, len(users))
	for _, user := range users {
		items = append(items, toUserInfo(user))
	}
	return items, nil
}

// WechatAuthURL 生成微信扫码登录地址
func (s *AuthService) WechatAuthURL(ctx context.Context, redirectURI string) (string, error) {
	if s.wechat == nil {
		return "", ErrWechatDisabled
	}
	state, err := s.states.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}
	return s.wechat.GetAuthURL(state), nil
}

// WechatLogin 微信回调登录。openid 未绑定任何账号时返回 ErrWechatNotBound，
// 前端引导用户先用手机号登录再绑定。
func (s *AuthService) WechatLogin(ctx context.Context, code, state string) (*dto.LoginResponse, string, error) {
	if s.wechat == nil {
		return nil, "", ErrWechatDisabled
	}
	redirectURI, err := s.states.ValidateState(ctx, state)
	if err != nil {
		return nil, "", err
	}

	token, err := s.wechat.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}

	openID, err := s.wechat.OpenID(token)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByWechatOpenID(openID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, redirectURI, ErrWechatNotBound
		}
		return nil, "", err
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return resp, redirectURI, nil
}

// BindWechat 已登录用户绑定微信
func (s *AuthService) BindWechat(ctx context.Context, userID int64, code string) error {
	if s.wechat == nil {
		return ErrWechatDisabled
	}
	token, err := s.wechat.Exchange(ctx, code)
	if err != nil {
		return err
	}

	wxUser, err := s.wechat.GetUser(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	user.WechatOpenID = &wxUser.OpenID
	if user.AvatarURL == "" {
		user.AvatarURL = wxUser.AvatarURL
	}
	return s.userRepo.Update(user)
}

func (s *AuthService) issueToken(user *model.User) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  toUserInfo(user),
	}, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: formatTime(user.CreatedAt),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}
