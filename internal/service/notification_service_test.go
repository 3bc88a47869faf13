package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/pkg/queue"
	"github.com/ai798/checkin_go_server/internal/repository"
	"github.com/ai798/checkin_go_server/internal/testutil"
)

func setupNotificationService(t *testing.T) (*NotificationService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		nil,
		nil,
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestNotificationService_HandleMessage(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	author := testutil.TestUser(t, db, testutil.WithPhone("13600000001"))
	actor := testutil.TestUser(t, db, testutil.WithPhone("13600000002"), testutil.WithName("评论者"))
	commentID := int64(42)

	err := service.HandleMessage(context.Background(), &queue.NotifyMessage{
		RecipientID: author.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Kind:        model.NotifyKindComment,
		CheckinID:   7,
		CommentID:   &commentID,
		Preview:     "写得真好",
	})
	require.NoError(t, err)

	items, err := service.List(author.ID)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, model.NotifyKindComment, items[0].Kind)
	assert.Equal(t, "评论者", items[0].ActorName)
	assert.Equal(t, int64(7), items[0].CheckinID)
	require.NotNil(t, items[0].CommentID)
	assert.Equal(t, commentID, *items[0].CommentID)
	assert.False(t, items[0].Read)

	// 发给作者的通知，评论者自己看不到
	others, err := service.List(actor.ID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestNotificationService_HandleMessage_SelfAction(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithPhone("13600000005"))

	// 自己评论自己的打卡不产生通知
	err := service.HandleMessage(context.Background(), &queue.NotifyMessage{
		RecipientID: user.ID,
		ActorID:     user.ID,
		ActorName:   user.Name,
		Kind:        model.NotifyKindComment,
		CheckinID:   1,
	})
	require.NoError(t, err)

	items, err := service.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNotificationService_MarkRead(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithPhone("13600000011"))
	for i := 0; i < 3; i++ {
		err := service.HandleMessage(context.Background(), &queue.NotifyMessage{
			RecipientID: user.ID,
			ActorID:     999,
			ActorName:   "某人",
			Kind:        model.NotifyKindLike,
			CheckinID:   1,
		})
		require.NoError(t, err)
	}

	unread, err := service.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	items, err := service.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// 先标记单条
	require.NoError(t, service.MarkRead(user.ID, []int64{items[0].ID}))

	unread, err = service.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// ids 为空标记全部
	require.NoError(t, service.MarkRead(user.ID, nil))

	unread, err = service.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationService_List_UnreadFirst(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithPhone("13600000021"))
	for i := 0; i < 2; i++ {
		err := service.HandleMessage(context.Background(), &queue.NotifyMessage{
			RecipientID: user.ID,
			ActorID:     999,
			ActorName:   "某人",
			Kind:        model.NotifyKindLike,
			CheckinID:   1,
		})
		require.NoError(t, err)
	}

	items, err := service.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// 读掉第一条后它应排到未读之后
	readID := items[0].ID
	require.NoError(t, service.MarkRead(user.ID, []int64{readID}))

	items, err = service.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].Read)
	assert.True(t, items[1].Read)
	assert.Equal(t, readID, items[1].ID)
}
