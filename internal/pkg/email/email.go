package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ai798/checkin_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// Enabled SMTP 是否已配置
func (s *Service) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.From != ""
}

// SendCommentNotification 发送评论/回复通知邮件
func (s *Service) SendCommentNotification(to, actorName, kind, preview string) error {
	action := "评论了你的打卡"
	if kind == "reply" {
		action = "回复了你的评论"
	}
	subject := fmt.Sprintf("%s %s - 每日打卡", actorName, action)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">新消息提醒</h2>
        <p>您好，</p>
        <p><strong>%s</strong> %s：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            %s
        </div>
        <p>登录打卡页面查看完整内容。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, actorName, action, preview)

	return s.sendHTML(to, subject, body)
}

// SendDailyReminder 发送每日打卡提醒邮件
func (s *Service) SendDailyReminder(to, username, date string) error {
	subject := "今日打卡提醒 - 每日打卡"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">打卡提醒</h2>
        <p>%s，您好！</p>
        <p>您今天（%s）还没有提交打卡，别忘了记录今天的收获、疑惑和计划。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, username, date)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
