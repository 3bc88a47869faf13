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

func setupCheckinService(t *testing.T) (*CheckinService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	checkinRepo := repository.NewCheckinRepository(db)
	service := NewCheckinService(checkinRepo, nil)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestCheckinService_Submit_Empty(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.Submit(context.Background(), user, &dto.SubmitCheckinRequest{
		Insight: "   ",
		Plan:    "\n",
	})

	assert.ErrorIs(t, err, ErrEmptyCheckin)
}

func TestCheckinService_Submit_Success(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithName("小明"))

	item, err := service.Submit(context.Background(), user, &dto.SubmitCheckinRequest{
		Insight:       "学会了批量查询",
		Plan:          "明天继续",
		InsightImages: []string{"https://example.com/a.png"},
	})

	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, TodayDate(), item.Date)
	assert.Equal(t, "小明", item.UserName)
	assert.Equal(t, "学会了批量查询", item.Answer.Insight)
	assert.Equal(t, "明天继续", item.Answer.Plan)
	assert.Equal(t, []string{"https://example.com/a.png"}, item.Images.Insight)
}

func TestCheckinService_Submit_SameDayOverwrites(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	first, err := service.Submit(context.Background(), user, &dto.SubmitCheckinRequest{Insight: "第一版"})
	require.NoError(t, err)

	second, err := service.Submit(context.Background(), user, &dto.SubmitCheckinRequest{Insight: "第二版"})
	require.NoError(t, err)

	// 同一天只有一条记录，内容被覆盖
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "第二版", second.Answer.Insight)

	var count int64
	require.NoError(t, db.Model(&model.Checkin{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckinService_Today(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	resp, err := service.Today(user.ID)
	require.NoError(t, err)
	assert.False(t, resp.CheckedIn)
	assert.Nil(t, resp.Checkin)

	_, err = service.Submit(context.Background(), user, &dto.SubmitCheckinRequest{Insight: "done"})
	require.NoError(t, err)

	resp, err = service.Today(user.ID)
	require.NoError(t, err)
	assert.True(t, resp.CheckedIn)
	require.NotNil(t, resp.Checkin)
	assert.Equal(t, "done", resp.Checkin.Answer.Insight)
}

func TestCheckinService_Count(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestCheckin(t, db, user, testutil.WithDate("2026-08-25"))
	testutil.TestCheckin(t, db, user, testutil.WithDate("2026-08-26"))
	testutil.TestCheckin(t, db, user, testutil.WithDate("2026-08-27"))

	resp, err := service.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Days)
}

func TestCheckinService_Mine_LatestFirst(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestCheckin(t, db, user, testutil.WithDate("2026-08-25"))
	testutil.TestCheckin(t, db, user, testutil.WithDate("2026-08-27"))
	testutil.TestCheckin(t, db, user, testutil.WithDate("2026-08-26"))

	items, err := service.Mine(user.ID)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "2026-08-27", items[0].Date)
	assert.Equal(t, "2026-08-26", items[1].Date)
	assert.Equal(t, "2026-08-25", items[2].Date)
}

func TestCheckinService_LegacyAnswerFormat(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestCheckin(t, db, user,
		testutil.WithDate("2026-08-01"),
		testutil.WithAnswer("早期的纯文本打卡内容"))

	items, err := service.Mine(user.ID)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "早期的纯文本打卡内容", items[0].Answer.Insight)
	assert.Empty(t, items[0].Answer.Confusion)
}

func TestCheckinService_ListByDate_Keyword(t *testing.T) {
	service, db, cleanup := setupCheckinService(t)
	defer cleanup()

	const date = "2026-08-28"

	zhang := testutil.TestUser(t, db, testutil.WithName("张三"), testutil.WithPhone("13600000001"))
	li := testutil.TestUser(t, db, testutil.WithName("李四"), testutil.WithPhone("13600000002"))
	testutil.TestCheckin(t, db, zhang, testutil.WithDate(date))
	testutil.TestCheckin(t, db, li, testutil.WithDate(date))

	all, err := service.ListByDate(date, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// 管理员接口返回手机号
	assert.NotEmpty(t, all[0].UserPhone)

	filtered, err := service.ListByDate(date, "张")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "张三", filtered[0].UserName)

	byPhone, err := service.ListByDate(date, "13600000002")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "李四", byPhone[0].UserName)
}
