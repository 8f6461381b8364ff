// Package watchdog runs the background jobs that keep attendance honest:
// lateness alerts, overdue break alerts and the midnight presence reset.
package watchdog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/timeguard/attendance-backend/internal/config"
	"github.com/timeguard/attendance-backend/internal/domain"
)

// Store is the slice of the repository the jobs read and write.
type Store interface {
	GetEmployeesForLatenessCheck(ctx context.Context, today time.Time) ([]*domain.Employee, error)
	HasClockedInSince(ctx context.Context, employeeID int64, since time.Time) (bool, error)
	UpdateLatenessAlertDate(ctx context.Context, id int64, day time.Time) error
	GetEmployeesOnBreak(ctx context.Context) ([]*domain.Employee, error)
	GetActiveEmployeesForReset(ctx context.Context) ([]int64, error)
	LogTimeEvent(ctx context.Context, entry *domain.TimeLogEntry) error
	UpdateEmployeeStatus(ctx context.Context, id int64, status domain.PresenceStatus) error
}

// Scheduler resolves working days for the lateness job.
type Scheduler interface {
	ResolveSchedule(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.ResolvedDay, error)
}

// AlertPublisher is satisfied by *amqp.Channel.
type AlertPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Watchdog struct {
	config       *config.Config
	repository   Store
	schedules    Scheduler
	alertChannel AlertPublisher
	redisClient  *redis.Client
	location     *time.Location
}

func NewWatchdog(cfg *config.Config, repo Store, schedules Scheduler, alertCh AlertPublisher, rdb *redis.Client) (*Watchdog, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Watchdog{
		config:       cfg,
		repository:   repo,
		schedules:    schedules,
		alertChannel: alertCh,
		redisClient:  rdb,
		location:     loc,
	}, nil
}

// Run starts all jobs and blocks until ctx is cancelled.
func (wd *Watchdog) Run(ctx context.Context) {
	go wd.runLatenessCheck(ctx)
	go wd.runBreakCheck(ctx)
	wd.runMidnightReset(ctx)
}

func (wd *Watchdog) publishAlert(ctx context.Context, msg domain.AlertMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(wd.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return wd.alertChannel.PublishWithContext(
		ctx,
		"",
		"alert_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (wd *Watchdog) logJobError(job string, err error) {
	slog.Error("watchdog job failed", "job", job, "error", err)
}
