package dto

// AnswerData 打卡文字内容，三个板块
type AnswerData struct {
	Insight   string `json:"insight"`
	Confusion string `json:"confusion"`
	Plan      string `json:"plan"`
}

// ImageData 打卡图片，按板块分组
type ImageData struct {
	Insight   []string `json:"insight"`
	Confusion []string `json:"confusion"`
}

// SubmitCheckinRequest 提交打卡请求
type SubmitCheckinRequest struct {
	Insight         string   `json:"insight" binding:"max=5000"`
	Confusion       string   `json:"confusion" binding:"max=5000"`
	Plan            string   `json:"plan" binding:"max=5000"`
	InsightImages   []string `json:"insight_images" binding:"max=9,dive,url"`
	ConfusionImages []string `json:"confusion_images" binding:"max=9,dive,url"`
}

// CheckinItem 打卡记录
type CheckinItem struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	UserName  string      `json:"user_name"`
	UserPhone string      `json:"user_phone,omitempty"` // 仅管理员接口返回
	Date      string      `json:"date"`
	Answer    *AnswerData `json:"answer"`
	Images    *ImageData  `json:"images"`
	CreatedAt string      `json:"created_at"`
}

// TodayCheckinResponse 今日打卡状态
type TodayCheckinResponse struct {
	Date      string       `json:"date"`
	CheckedIn bool         `json:"checked_in"`
	Checkin   *CheckinItem `json:"checkin,omitempty"`
}

// CheckinCountResponse 累计打卡天数
type CheckinCountResponse struct {
	Days int64 `json:"days"`
}

// QuestionItem 每日题目
type QuestionItem struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpsertQuestionRequest 管理员设置题目请求
type UpsertQuestionRequest struct {
	Date    string `json:"date" binding:"required,len=10"`
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"max=5000"`
}
