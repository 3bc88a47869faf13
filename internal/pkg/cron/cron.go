package cron

import (
	"log"
	"time"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/pkg/email"
	"github.com/ai798/checkin_go_server/internal/repository"
	"github.com/ai798/checkin_go_server/internal/service"
)

var beijingLoc = time.FixedZone("CST", 8*3600)

type Service struct {
	userRepo     *repository.UserRepository
	checkinRepo  *repository.CheckinRepository
	emailService *email.Service
	cfg          *config.ReminderConfig
	stopChan     chan struct{}
}

func NewService(
	userRepo *repository.UserRepository,
	checkinRepo *repository.CheckinRepository,
	emailService *email.Service,
	cfg *config.ReminderConfig,
) *Service {
	return &Service{
		userRepo:     userRepo,
		checkinRepo:  checkinRepo,
		emailService: emailService,
		cfg:          cfg,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	if !s.cfg.Enabled {
		log.Println("Cron service disabled")
		return
	}
	go s.runDailyReminder()
	log.Println("Cron service started (daily checkin reminder)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyReminder 每天北京时间 cfg.Hour 点执行打卡提醒
func (s *Service) runDailyReminder() {
	timer := time.NewTimer(s.untilNextRun())

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.sendReminders()
			timer.Reset(s.untilNextRun())
		}
	}
}

func (s *Service) untilNextRun() time.Duration {
	now := time.Now().In(beijingLoc)
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.Hour, 0, 0, 0, beijingLoc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

// sendReminders 给当天还没打卡且留了邮箱的成员发提醒邮件
func (s *Service) sendReminders() {
	if s.emailService == nil || !s.emailService.Enabled() {
		return
	}

	date := service.TodayDate()

	checkins, err := s.checkinRepo.ListByDate(date)
	if err != nil {
		log.Printf("Reminder: failed to list checkins for %s: %v", date, err)
		return
	}
	checkedIn := make(map[int64]struct{}, len(checkins))
	for _, c := range checkins {
		checkedIn[c.UserID] = struct{}{}
	}

	users, err := s.userRepo.ListAll()
	if err != nil {
		log.Printf("Reminder: failed to list users: %v", err)
		return
	}

	sent := 0
	for _, user := range users {
		if user.Email == nil {
			continue
		}
		if _, ok := checkedIn[user.ID]; ok {
			continue
		}
		if err := s.emailService.SendDailyReminder(*user.Email, user.Name, date); err != nil {
			log.Printf("Reminder: failed to send to user %d: %v", user.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("Reminder: sent %d emails for %s", sent, date)
	}
}
