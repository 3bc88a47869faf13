package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/api/handler"
	"github.com/ai798/checkin_go_server/internal/api/middleware"
	"github.com/ai798/checkin_go_server/internal/repository"
)

type Router struct {
	authHandler         *handler.AuthHandler
	checkinHandler      *handler.CheckinHandler
	questionHandler     *handler.QuestionHandler
	feedHandler         *handler.FeedHandler
	commentHandler      *handler.CommentHandler
	likeHandler         *handler.LikeHandler
	notificationHandler *handler.NotificationHandler
	uploadHandler       *handler.UploadHandler
	websocketHandler    *handler.WebSocketHandler
	userRepo            *repository.UserRepository
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	checkinHandler *handler.CheckinHandler,
	questionHandler *handler.QuestionHandler,
	feedHandler *handler.FeedHandler,
	commentHandler *handler.CommentHandler,
	likeHandler *handler.LikeHandler,
	notificationHandler *handler.NotificationHandler,
	uploadHandler *handler.UploadHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		checkinHandler:      checkinHandler,
		questionHandler:     questionHandler,
		feedHandler:         feedHandler,
		commentHandler:      commentHandler,
		likeHandler:         likeHandler,
		notificationHandler: notificationHandler,
		uploadHandler:       uploadHandler,
		websocketHandler:    websocketHandler,
		userRepo:            userRepo,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	// OSS 未配置时图片落在本地目录，静态托管
	if r.cfg.Upload.LocalDir != "" {
		engine.Static("/uploads", r.cfg.Upload.LocalDir)
	}

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/wechat", r.authHandler.WechatAuth)
			auth.GET("/wechat/callback", r.authHandler.WechatCallback)
		}

		// 公开接口 - 题目
		questions := api.Group("/questions")
		{
			questions.GET("", r.questionHandler.Dates)
			questions.GET("/today", r.questionHandler.Today)
			questions.GET("/:date", r.questionHandler.ByDate)
		}

		// 回顾页：未登录也能看，登录后标注"我赞过"
		feed := api.Group("/feed")
		feed.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			feed.GET("", r.feedHandler.ListByDate)
			feed.GET("/checkins/:id", r.feedHandler.GetCheckin)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.authHandler.Profile)
				user.POST("/avatar", r.uploadHandler.Avatar)
				user.POST("/wechat/bind", r.authHandler.BindWechat)
			}

			// 打卡
			checkins := authenticated.Group("/checkins")
			{
				checkins.POST("", r.checkinHandler.Submit)
				checkins.GET("/today", r.checkinHandler.Today)
				checkins.GET("/count", r.checkinHandler.Count)
				checkins.GET("/mine", r.checkinHandler.Mine)
				checkins.GET("/:id/comments", r.commentHandler.List)
				checkins.POST("/:id/comments", r.commentHandler.Create)
				checkins.POST("/:id/like", r.likeHandler.LikeCheckin)
				checkins.DELETE("/:id/like", r.likeHandler.UnlikeCheckin)
			}

			// 评论
			comments := authenticated.Group("/comments")
			{
				comments.DELETE("/:id", r.commentHandler.Delete)
				comments.POST("/:id/like", r.likeHandler.LikeComment)
				comments.DELETE("/:id/like", r.likeHandler.UnlikeComment)
			}

			// 通知
			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.GET("/unread-count", r.notificationHandler.UnreadCount)
				notifications.POST("/read", r.notificationHandler.MarkRead)
			}

			// 上传
			authenticated.POST("/upload/image", r.uploadHandler.Image)
		}

		// 管理员接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly(r.userRepo))
		{
			admin.GET("/checkins", r.checkinHandler.AdminList)
			admin.PUT("/questions", r.questionHandler.Upsert)
			admin.POST("/users", r.authHandler.CreateUser)
			admin.GET("/users", r.authHandler.ListUsers)
		}
	}

	return engine
}
