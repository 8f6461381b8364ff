package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/timeguard/attendance-backend/internal/domain"
	"github.com/timeguard/attendance-backend/internal/schedule"
)

// dateRange reads the from/to query parameters. Defaults to the current
// month in the configured timezone when both are absent.
func (h *Handler) dateRange(r *http.Request) (time.Time, time.Time, error) {
	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")

	if fromParam == "" && toParam == "" {
		now := time.Now().In(h.location)
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.location)
		return from, from.AddDate(0, 1, -1), nil
	}

	from, err := time.ParseInLocation(domain.DateOnly, fromParam, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from date")
	}
	to, err := time.ParseInLocation(domain.DateOnly, toParam, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid to date")
	}

	return from, to, nil
}

type proposalRequest struct {
	IsDayOff bool    `json:"isDayOff"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Comment  string  `json:"comment"`
}

func (req *proposalRequest) toDomain() (domain.ScheduleProposal, error) {
	proposal := domain.ScheduleProposal{
		IsDayOff: req.IsDayOff,
		Comment:  req.Comment,
	}
	if req.Start != nil {
		start, err := domain.ParseTimeOfDay(*req.Start)
		if err != nil {
			return domain.ScheduleProposal{}, errors.New("invalid start time")
		}
		proposal.Start = &start
	}
	if req.End != nil {
		end, err := domain.ParseTimeOfDay(*req.End)
		if err != nil {
			return domain.ScheduleProposal{}, errors.New("invalid end time")
		}
		proposal.End = &end
	}
	return proposal, nil
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	days, err := h.schedules.ResolveSchedule(r.Context(), emp.ID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidRange):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule resolved", days)
}

func (h *Handler) CheckScheduleConflicts(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req proposalRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	proposal, err := req.toDomain()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	conflicts, err := h.schedules.CheckScheduleConflicts(r.Context(), emp.ID, from, to, proposal)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidRange), errors.Is(err, schedule.ErrInvalidProposal):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if len(conflicts) > 0 {
		if err := h.publishConflictAlert(emp, from, to, conflicts); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "conflicts checked", conflicts)
}

func (h *Handler) publishConflictAlert(emp *domain.Employee, from, to time.Time, conflicts []domain.Deal) error {
	data := domain.ScheduleConflictAlertData{
		EmployeeID: emp.ID,
		FullName:   emp.FullName,
		From:       from.Format(domain.DateOnly),
		To:         to.Format(domain.DateOnly),
	}
	for _, deal := range conflicts {
		data.DealIDs = append(data.DealIDs, deal.ID)
		data.DealTimes = append(data.DealTimes, deal.ScheduledAt.In(h.location).Format("2006-01-02 15:04"))
	}

	body, err := json.Marshal(domain.AlertMessage{Type: domain.AlertTypeScheduleConflict, Data: data})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.alertChannel.PublishWithContext(
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

func (h *Handler) CommitScheduleOverride(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req proposalRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	proposal, err := req.toDomain()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	err = h.schedules.CommitScheduleOverride(r.Context(), emp.ID, from, to, proposal)
	if err != nil {
		var partial *schedule.PartialWriteError
		switch {
		case errors.Is(err, schedule.ErrInvalidRange), errors.Is(err, schedule.ErrInvalidProposal):
			h.badRequest(w, r, err)
		case errors.As(err, &partial):
			// Some dates landed. Report the ones that did not so the client
			// can retry just those.
			failed := make([]string, 0, len(partial.FailedDates))
			for _, d := range partial.FailedDates {
				failed = append(failed, d.Format(domain.DateOnly))
			}
			h.logInternalServerError(r, err)
			h.writeJSON(w, r, http.StatusOK, Response{
				Success: false,
				Message: "some dates were not applied",
				Data:    failed,
			})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule override applied", nil)
}

func (h *Handler) ApplyApprovedAbsence(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req struct {
		Start string `json:"start" validate:"required"`
		End   string `json:"end" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	absenceStart, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		h.badRequest(w, r, errors.New("invalid start time"))
		return
	}
	absenceEnd, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		h.badRequest(w, r, errors.New("invalid end time"))
		return
	}

	results, err := h.schedules.ClipForApprovedAbsence(r.Context(), emp.ID, from, to, absenceStart, absenceEnd)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidRange), errors.Is(err, schedule.ErrInvalidProposal):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "absence applied", results)
}

func (h *Handler) GetOverrideReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	report, err := h.repository.GetOverrideReport(r.Context(), from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "override report", report)
}
