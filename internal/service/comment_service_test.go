package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/repository"
	"github.com/ai798/checkin_go_server/internal/testutil"
)

func setupCommentService(t *testing.T) (*CommentService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	commentRepo := repository.NewCommentRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	service := NewCommentService(commentRepo, checkinRepo, nil, nil)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestCommentService_Create_Success(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db, testutil.WithPhone("13800000001"))
	commenter := testutil.TestUser(t, db, testutil.WithPhone("13800000002"), testutil.WithName("评论人"))
	checkin := testutil.TestCheckin(t, db, author)

	item, err := service.Create(context.Background(), commenter, checkin.ID, &dto.CreateCommentRequest{
		Content: "写得真好",
	})

	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, commenter.ID, item.UserID)
	assert.Equal(t, "评论人", item.UserName)
	assert.Equal(t, "写得真好", item.Content)
	assert.Nil(t, item.ParentID)
}

func TestCommentService_Create_EmptyContent(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, author)

	_, err := service.Create(context.Background(), author, checkin.ID, &dto.CreateCommentRequest{
		Content: "   \n\t  ",
	})

	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestCommentService_Create_CheckinNotFound(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.Create(context.Background(), user, 99999, &dto.CreateCommentRequest{
		Content: "hello",
	})

	assert.ErrorIs(t, err, ErrCheckinNotFound)
}

func TestCommentService_Create_ParentNotFound(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, user)
	missing := int64(99999)

	_, err := service.Create(context.Background(), user, checkin.ID, &dto.CreateCommentRequest{
		Content:  "hi",
		ParentID: &missing,
	})

	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCommentService_Create_ParentInAnotherCheckin(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	userA := testutil.TestUser(t, db, testutil.WithPhone("13800000011"))
	userB := testutil.TestUser(t, db, testutil.WithPhone("13800000012"))
	checkinA := testutil.TestCheckin(t, db, userA)
	checkinB := testutil.TestCheckin(t, db, userB)
	parent := testutil.TestComment(t, db, userA, checkinA.ID, "first")

	_, err := service.Create(context.Background(), userB, checkinB.ID, &dto.CreateCommentRequest{
		Content:  "hi",
		ParentID: &parent.ID,
	})

	assert.ErrorIs(t, err, ErrParentNotInCheckin)
}

func TestCommentService_Create_ReplyToReplyFlattened(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db, testutil.WithPhone("13800000021"))
	checkin := testutil.TestCheckin(t, db, author)
	top := testutil.TestComment(t, db, author, checkin.ID, "一级评论")
	reply := testutil.TestReply(t, db, author, checkin.ID, top.ID, "二级回复")

	item, err := service.Create(context.Background(), author, checkin.ID, &dto.CreateCommentRequest{
		Content:  "回复二级",
		ParentID: &reply.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, item.ParentID)
	assert.Equal(t, top.ID, *item.ParentID)

	var saved model.Comment
	require.NoError(t, db.First(&saved, item.ID).Error)
	assert.Equal(t, top.ID, *saved.ParentID)
}

func TestCommentService_Delete_OnlyAuthor(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db, testutil.WithPhone("13800000031"))
	other := testutil.TestUser(t, db, testutil.WithPhone("13800000032"))
	checkin := testutil.TestCheckin(t, db, author)
	comment := testutil.TestComment(t, db, author, checkin.ID, "hello")

	err := service.Delete(context.Background(), other.ID, comment.ID)

	assert.ErrorIs(t, err, ErrNotCommentAuthor)
}

func TestCommentService_Delete_NotFound(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	err := service.Delete(context.Background(), user.ID, 99999)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentService_Delete_CascadesReplies(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db, testutil.WithPhone("13800000041"))
	checkin := testutil.TestCheckin(t, db, author)
	top := testutil.TestComment(t, db, author, checkin.ID, "top")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r1")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r2")

	err := service.Delete(context.Background(), author.ID, top.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Comment{}).Where("checkin_id = ?", checkin.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommentService_Delete_ReplyKeepsSiblings(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db, testutil.WithPhone("13800000042"))
	checkin := testutil.TestCheckin(t, db, author)
	top := testutil.TestComment(t, db, author, checkin.ID, "top")
	r1 := testutil.TestReply(t, db, author, checkin.ID, top.ID, "r1")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r2")

	err := service.Delete(context.Background(), author.ID, r1.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Comment{}).Where("checkin_id = ?", checkin.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCommentService_Thread_NoCollapseAtThreshold(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, author)
	top := testutil.TestComment(t, db, author, checkin.ID, "top")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r1")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r2")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r3")

	thread, err := service.ThreadFor(checkin.ID)
	require.NoError(t, err)

	require.Len(t, thread.Items, 1)
	item := thread.Items[0]
	assert.Len(t, item.Replies, 3)
	assert.Empty(t, item.HiddenReplies)
	assert.Equal(t, 3, item.ReplyCount)
	assert.Equal(t, 4, thread.Total)
}

func TestCommentService_Thread_CollapseKeepsLatestTwo(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, author)
	top := testutil.TestComment(t, db, author, checkin.ID, "top")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r1")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r2")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r3")
	testutil.TestReply(t, db, author, checkin.ID, top.ID, "r4")

	thread, err := service.ThreadFor(checkin.ID)
	require.NoError(t, err)

	require.Len(t, thread.Items, 1)
	item := thread.Items[0]
	assert.Equal(t, 4, item.ReplyCount)

	require.Len(t, item.Replies, 2)
	assert.Equal(t, "r3", item.Replies[0].Content)
	assert.Equal(t, "r4", item.Replies[1].Content)

	require.Len(t, item.HiddenReplies, 2)
	assert.Equal(t, "r1", item.HiddenReplies[0].Content)
	assert.Equal(t, "r2", item.HiddenReplies[1].Content)

	assert.Equal(t, 5, thread.Total)
}

func TestCommentService_Thread_OrphanHiddenButCounted(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, author)
	top := testutil.TestComment(t, db, author, checkin.ID, "top")

	gone := int64(99999)
	orphan := &model.Comment{
		CheckinID: checkin.ID,
		UserID:    author.ID,
		UserName:  author.Name,
		ParentID:  &gone,
		Content:   "孤儿回复",
	}
	require.NoError(t, db.Create(orphan).Error)

	thread, err := service.ThreadFor(checkin.ID)
	require.NoError(t, err)

	require.Len(t, thread.Items, 1)
	assert.Equal(t, top.ID, thread.Items[0].ID)
	assert.Empty(t, thread.Items[0].Replies)
	assert.Equal(t, 2, thread.Total)
}

func TestCommentService_Thread_KeepsCreationOrder(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, author)
	c1 := testutil.TestComment(t, db, author, checkin.ID, "first")
	c2 := testutil.TestComment(t, db, author, checkin.ID, "second")
	c3 := testutil.TestComment(t, db, author, checkin.ID, "third")

	thread, err := service.ThreadFor(checkin.ID)
	require.NoError(t, err)

	require.Len(t, thread.Items, 3)
	assert.Equal(t, c1.ID, thread.Items[0].ID)
	assert.Equal(t, c2.ID, thread.Items[1].ID)
	assert.Equal(t, c3.ID, thread.Items[2].ID)
}

func TestCommentService_Thread_Empty(t *testing.T) {
	service, db, cleanup := setupCommentService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	checkin := testutil.TestCheckin(t, db, author)

	thread, err := service.ThreadFor(checkin.ID)
	require.NoError(t, err)

	assert.Empty(t, thread.Items)
	assert.Equal(t, 0, thread.Total)
}
