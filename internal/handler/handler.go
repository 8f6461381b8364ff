package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/timeguard/attendance-backend/internal/config"
	"github.com/timeguard/attendance-backend/internal/domain"
	"github.com/timeguard/attendance-backend/internal/repository"
	"github.com/timeguard/attendance-backend/internal/schedule"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	schedules    *schedule.Service
	translator   ut.Translator
	alertChannel *amqp.Channel
	redisClient  *redis.Client
	location     *time.Location

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, schedules *schedule.Service, alertCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		schedules:    schedules,
		translator:   trans,
		alertChannel: alertCh,
		redisClient:  rdb,
		location:     loc,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) redisCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// Everything below requires a valid session.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateEmployee)
			r.Get("/", h.GetAllEmployees)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Get("/", h.GetEmployee)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSecurity})).Get("/time-log", h.GetEmployeeTimeLog)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateEmployee)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.TerminateEmployee)
				r.Route("/schedule", func(r chi.Router) {
					r.Get("/", h.GetSchedule)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/", h.CommitScheduleOverride)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/conflicts", h.CheckScheduleConflicts)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/absence", h.ApplyApprovedAbsence)
				})
			})
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSecurity})).
			Get("/overrides", h.GetOverrideReport)

		r.Route("/presence", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/clock-in", h.ClockIn)
			r.Post("/clock-out", h.ClockOut)
		})
	})
}
