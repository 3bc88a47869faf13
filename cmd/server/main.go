package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/api"
	"github.com/ai798/checkin_go_server/internal/api/handler"
	"github.com/ai798/checkin_go_server/internal/database"
	"github.com/ai798/checkin_go_server/internal/pkg/cron"
	"github.com/ai798/checkin_go_server/internal/pkg/email"
	"github.com/ai798/checkin_go_server/internal/pkg/oauth"
	"github.com/ai798/checkin_go_server/internal/pkg/oss"
	"github.com/ai798/checkin_go_server/internal/pkg/pubsub"
	"github.com/ai798/checkin_go_server/internal/pkg/queue"
	"github.com/ai798/checkin_go_server/internal/pkg/ws"
	"github.com/ai798/checkin_go_server/internal/repository"
	"github.com/ai798/checkin_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选，未配置时图片落盘到本地）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 回顾页事件经 Redis 广播后推给本实例的所有连接
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.FeedEvent) {
			if err := wsHub.Broadcast(&ws.Message{Type: event.Type, Data: event}); err != nil {
				log.Printf("Failed to broadcast feed event: %v", err)
			}
		})
		if err != nil && err != context.Canceled {
			log.Printf("Feed event subscriber stopped: %v", err)
		}
	}()

	// worker 落库后的定向通知，只推给接收者本人的连接
	go func() {
		err := subscriber.SubscribeNotify(context.Background(), func(event *pubsub.NotifyEvent) {
			if err := wsHub.SendToUser(event.RecipientID, &ws.Message{Type: "notification", Data: event}); err != nil {
				log.Printf("Failed to push notification to user %d: %v", event.RecipientID, err)
			}
		})
		if err != nil && err != context.Canceled {
			log.Printf("Notify event subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化微信登录（可选）
	var wechatOAuth *oauth.WechatOAuth
	var stateStore *oauth.StateStore
	if cfg.OAuth.Wechat.AppID != "" {
		wechatOAuth = oauth.NewWechatOAuth(
			cfg.OAuth.Wechat.AppID,
			cfg.OAuth.Wechat.AppSecret,
			cfg.OAuth.Wechat.RedirectURI,
		)
		stateStore = oauth.NewStateStore(rdb)
		log.Println("WeChat OAuth enabled")
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 初始化 Service
	emailService := email.NewService(&cfg.Email)
	authService := service.NewAuthService(userRepo, cfg, wechatOAuth, stateStore)
	checkinService := service.NewCheckinService(checkinRepo, publisher)
	questionService := service.NewQuestionService(questionRepo)
	commentService := service.NewCommentService(commentRepo, checkinRepo, notifyQueue, publisher)
	likeService := service.NewLikeService(likeRepo, checkinRepo, commentRepo, notifyQueue, publisher)
	feedService := service.NewFeedService(checkinRepo, commentRepo, likeRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, emailService, publisher)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	checkinHandler := handler.NewCheckinHandler(checkinService, authService)
	questionHandler := handler.NewQuestionHandler(questionService)
	feedHandler := handler.NewFeedHandler(feedService)
	commentHandler := handler.NewCommentHandler(commentService, authService)
	likeHandler := handler.NewLikeHandler(likeService, authService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	uploadHandler := handler.NewUploadHandler(ossClient, &cfg.Upload, userRepo)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 启动定时提醒
	cronService := cron.NewService(userRepo, checkinRepo, emailService, &cfg.Reminder)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		checkinHandler,
		questionHandler,
		feedHandler,
		commentHandler,
		likeHandler,
		notificationHandler,
		uploadHandler,
		websocketHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
