package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestFeedEvent_JSON(t *testing.T) {
	event := &FeedEvent{
		Type:      EventCommentCreated,
		Date:      "2026-08-28",
		CheckinID: 7,
		CommentID: 12,
		ActorID:   3,
		ActorName: "张三",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	assert.Contains(t, raw, "checkin_id")
	assert.Contains(t, raw, "comment_id")
	assert.Contains(t, raw, "actor_id")

	var decoded FeedEvent
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.CheckinID, decoded.CheckinID)
	assert.Equal(t, event.CommentID, decoded.CommentID)
}

func TestFeedEvent_OmitEmpty(t *testing.T) {
	event := &FeedEvent{
		Type:      EventCheckinSubmitted,
		Date:      "2026-08-28",
		CheckinID: 7,
		ActorID:   3,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	_, hasComment := raw["comment_id"]
	_, hasTargetType := raw["target_type"]
	assert.False(t, hasComment)
	assert.False(t, hasTargetType)
}

func TestPublishSubscribe_FeedEvent(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *FeedEvent, 1)
	go func() {
		subscriber.Subscribe(ctx, func(event *FeedEvent) {
			received <- event
		})
	}()

	// 等订阅建立
	time.Sleep(100 * time.Millisecond)

	event := &FeedEvent{
		Type:       EventLikeChanged,
		Date:       "2026-08-28",
		CheckinID:  7,
		TargetType: "checkin",
		ActorID:    3,
		ActorName:  "张三",
	}
	err := publisher.PublishFeedEvent(ctx, event)
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, EventLikeChanged, got.Type)
		assert.Equal(t, int64(7), got.CheckinID)
		assert.Equal(t, "checkin", got.TargetType)
		assert.Equal(t, "张三", got.ActorName)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for feed event")
	}
}

func TestPublishSubscribe_NotifyEvent(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *NotifyEvent, 1)
	go func() {
		subscriber.SubscribeNotify(ctx, func(event *NotifyEvent) {
			received <- event
		})
	}()

	time.Sleep(100 * time.Millisecond)

	commentID := int64(12)
	err := publisher.PublishNotifyEvent(ctx, &NotifyEvent{
		RecipientID: 5,
		Kind:        "reply",
		ActorName:   "李四",
		CheckinID:   7,
		CommentID:   &commentID,
	})
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, int64(5), got.RecipientID)
		assert.Equal(t, "reply", got.Kind)
		assert.Equal(t, "李四", got.ActorName)
		require.NotNil(t, got.CommentID)
		assert.Equal(t, commentID, *got.CommentID)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for notify event")
	}
}

func TestSubscribe_ChannelsIsolated(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	feedReceived := make(chan *FeedEvent, 1)
	go func() {
		subscriber.Subscribe(ctx, func(event *FeedEvent) {
			feedReceived <- event
		})
	}()

	time.Sleep(100 * time.Millisecond)

	// 定向通知事件不该进回顾页订阅
	err := publisher.PublishNotifyEvent(ctx, &NotifyEvent{RecipientID: 1, Kind: "like"})
	require.NoError(t, err)

	select {
	case <-feedReceived:
		t.Fatal("Feed subscriber should not receive notify events")
	case <-time.After(300 * time.Millisecond):
	}
}
