package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelFeedEvents   = "feed_events"
	ChannelNotifyEvents = "notify_events"
)

// 事件类型常量
const (
	EventCheckinSubmitted = "checkin_submitted"
	EventCommentCreated   = "comment_created"
	EventCommentDeleted   = "comment_deleted"
	EventLikeChanged      = "like_changed"
)

// FeedEvent 回顾页增量事件。多实例部署时经 Redis 广播，
// 每个实例再推给自己持有的 WebSocket 连接。
type FeedEvent struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	CheckinID  int64  `json:"checkin_id"`
	CommentID  int64  `json:"comment_id,omitempty"`
	TargetType string `json:"target_type,omitempty"` // like_changed 事件的目标类型
	ActorID    int64  `json:"actor_id"`
	ActorName  string `json:"actor_name,omitempty"`
}

// NotifyEvent 定向通知事件。worker 落库后发布，
// 持有接收者连接的实例推送未读提醒。
type NotifyEvent struct {
	RecipientID int64  `json:"recipient_id"`
	Kind        string `json:"kind"`
	ActorName   string `json:"actor_name"`
	CheckinID   int64  `json:"checkin_id"`
	CommentID   *int64 `json:"comment_id,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishFeedEvent 发布回顾页事件
func (p *Publisher) PublishFeedEvent(ctx context.Context, event *FeedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feed event: %w", err)
	}

	return p.client.Publish(ctx, ChannelFeedEvents, data).Err()
}

// PublishNotifyEvent 发布定向通知事件
func (p *Publisher) PublishNotifyEvent(ctx context.Context, event *NotifyEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notify event: %w", err)
	}

	return p.client.Publish(ctx, ChannelNotifyEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅回顾页事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*FeedEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelFeedEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event FeedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}

// SubscribeNotify 订阅定向通知事件
func (s *Subscriber) SubscribeNotify(ctx context.Context, handler func(*NotifyEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelNotifyEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event NotifyEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
