package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/database"
	"github.com/ai798/checkin_go_server/internal/pkg/email"
	"github.com/ai798/checkin_go_server/internal/pkg/pubsub"
	"github.com/ai798/checkin_go_server/internal/pkg/queue"
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
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和发布者
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Service
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	emailService := email.NewService(&cfg.Email)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, emailService, publisher)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	if backlog, err := notifyQueue.Length(ctx); err == nil {
		log.Printf("Queue backlog at startup: %d", backlog)
	}
	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := notifyQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop message: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					if err := notificationService.HandleMessage(ctx, msg); err != nil {
						log.Printf("Worker %d: notify for user %d failed: %v", workerID, msg.RecipientID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
