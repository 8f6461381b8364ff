package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
	"github.com/timeguard/attendance-backend/internal/schedule"
)

func (h *Handler) startOfToday() time.Time {
	now := time.Now().In(h.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.location)
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	if myInfo.Status == domain.StatusOnline {
		h.errorResponse(w, r, "already clocked in")
		return
	}

	entry := &domain.TimeLogEntry{
		EmployeeID: myInfo.ID,
		EventType:  domain.EventClockIn,
	}
	// A clock-in from a paused state closes that pause; record which one.
	switch myInfo.Status {
	case domain.StatusOnBreak:
		entry.Reason = domain.ReasonBreak
	case domain.StatusOnLunch:
		entry.Reason = domain.ReasonLunch
	case domain.StatusOnCollection:
		entry.Reason = domain.ReasonCollection
	}

	if err := h.repository.LogTimeEvent(r.Context(), entry); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.repository.UpdateEmployeeStatus(r.Context(), myInfo.ID, domain.StatusOnline); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if myInfo.IsOperator() {
		ctx, cancel := h.redisCtx()
		defer cancel()
		if err := h.redisClient.SAdd(ctx, domain.OperatorsOnlineKey, myInfo.ID).Err(); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "clocked in", entry)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason         string `json:"reason" validate:"required,oneof=break lunch collection end_of_day"`
		Force          bool   `json:"force"`
		ApprovalReason string `json:"approvalReason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	if myInfo.Status != domain.StatusOnline {
		h.errorResponse(w, r, "not clocked in")
		return
	}

	var nextStatus domain.PresenceStatus
	switch req.Reason {
	case domain.ReasonBreak:
		nextStatus = domain.StatusOnBreak
		if ok := h.checkDailyLimit(w, r, myInfo.ID, domain.ReasonBreak, h.config.Watchdog.BreakDailyLimit); !ok {
			return
		}
	case domain.ReasonLunch:
		nextStatus = domain.StatusOnLunch
		if ok := h.checkDailyLimit(w, r, myInfo.ID, domain.ReasonLunch, h.config.Watchdog.LunchDailyLimit); !ok {
			return
		}
	case domain.ReasonCollection:
		// Collection is still work time; no limit and no deal guard.
		nextStatus = domain.StatusOnCollection
	case domain.ReasonEndOfDay:
		nextStatus = domain.StatusOffline
		if ok := h.checkActiveTask(w, r, myInfo); !ok {
			return
		}
	}

	if window := h.lookAheadWindow(req.Reason); window > 0 {
		if ok := h.checkNearTermDeals(w, r, myInfo, window, req.Force, req.ApprovalReason); !ok {
			return
		}
	}

	entry := &domain.TimeLogEntry{
		EmployeeID: myInfo.ID,
		EventType:  domain.EventClockOut,
		Reason:     req.Reason,
	}
	if req.Force && req.ApprovalReason != "" {
		role := domain.Role(r.Context().Value(RoleCtxKey).(string))
		if role == domain.RoleSecurity || role == domain.RoleAdmin {
			entry.ApproverID = &myInfo.ID
			entry.ApprovalReason = req.ApprovalReason
		}
	}

	if err := h.repository.LogTimeEvent(r.Context(), entry); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.repository.UpdateEmployeeStatus(r.Context(), myInfo.ID, nextStatus); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.Reason == domain.ReasonEndOfDay && myInfo.IsOperator() {
		ctx, cancel := h.redisCtx()
		defer cancel()
		if err := h.redisClient.SRem(ctx, domain.OperatorsOnlineKey, myInfo.ID).Err(); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "clocked out", entry)
}

// checkDailyLimit writes the refusal response itself and reports whether the
// clock-out may proceed.
func (h *Handler) checkDailyLimit(w http.ResponseWriter, r *http.Request, employeeID int64, reason string, limit int) bool {
	count, err := h.repository.CountTodayEventsByReason(r.Context(), employeeID, reason, h.startOfToday())
	if err != nil {
		h.internalServerError(w, r, err)
		return false
	}
	if count >= limit {
		h.errorResponse(w, r, fmt.Sprintf("daily %s limit reached (%d)", reason, limit))
		return false
	}
	return true
}

// lookAheadWindow is how far ahead booked deals block a clock-out for the
// given reason: a pause blocks for its duration limit, end of day for the
// configured look-ahead.
func (h *Handler) lookAheadWindow(reason string) time.Duration {
	switch reason {
	case domain.ReasonBreak:
		return time.Duration(h.config.Watchdog.BreakDurationLimit) * time.Minute
	case domain.ReasonLunch:
		return time.Duration(h.config.Watchdog.LunchDurationLimit) * time.Minute
	case domain.ReasonEndOfDay:
		return time.Duration(h.config.Watchdog.DealLookAheadMinutes) * time.Minute
	default:
		return 0
	}
}

// checkActiveTask refuses an operator's end-of-day clock-out while a task is
// still assigned to them in Redis.
func (h *Handler) checkActiveTask(w http.ResponseWriter, r *http.Request, myInfo *domain.Employee) bool {
	if !myInfo.IsOperator() {
		return true
	}

	ctx, cancel := h.redisCtx()
	defer cancel()

	exists, err := h.redisClient.Exists(ctx, fmt.Sprintf("operator_task_%d", myInfo.ID)).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return false
	}
	if exists > 0 {
		h.errorResponse(w, r, "finish the assigned task before clocking out")
		return false
	}
	return true
}

// checkNearTermDeals refuses a clock-out when a non-closed deal falls inside
// the look-ahead window. Security and admins can push through with force
// plus a reason; that approval lands in the time log.
func (h *Handler) checkNearTermDeals(w http.ResponseWriter, r *http.Request, myInfo *domain.Employee, window time.Duration, force bool, approvalReason string) bool {
	now := time.Now().In(h.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.location)
	active, err := h.repository.ListActiveDeals(r.Context(), myInfo.ID, today, today.AddDate(0, 0, 1))
	if err != nil {
		h.internalServerError(w, r, err)
		return false
	}

	deals := schedule.FindNearTermDeals(active, now, window)
	if len(deals) == 0 {
		return true
	}

	if force && approvalReason != "" {
		role := domain.Role(r.Context().Value(RoleCtxKey).(string))
		if role == domain.RoleSecurity || role == domain.RoleAdmin {
			return true
		}
	}

	times := make([]string, 0, len(deals))
	for _, deal := range deals {
		times = append(times, deal.ScheduledAt.In(h.location).Format("15:04"))
	}
	h.errorResponse(w, r, fmt.Sprintf("upcoming deals at %s, clock-out refused", strings.Join(times, ", ")))
	return false
}

// GetEmployeeTimeLog lists an employee's raw clock events for the report
// views. Accepts the same from/to query parameters as the schedule endpoints.
func (h *Handler) GetEmployeeTimeLog(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// The repository window is half-open; push the upper bound one day out so
	// the to date itself is included.
	entries, err := h.repository.GetTimeLog(r.Context(), emp.ID, from, to.AddDate(0, 0, 1))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "time log listed", entries)
}
