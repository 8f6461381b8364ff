package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/timeguard/attendance-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employees listed", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)
	h.successResponse(w, r, "ok", emp)
}

type employeeRequest struct {
	FullName   string  `json:"fullName" validate:"required"`
	Position   string  `json:"position" validate:"required"`
	Role       string  `json:"role" validate:"required,oneof=employee security admin"`
	Email      string  `json:"email" validate:"required,email"`
	Pattern    string  `json:"pattern" validate:"required,oneof=5/2 6/1 7/0 2/2"`
	AnchorDate *string `json:"anchorDate" validate:"omitempty,datetime=2006-01-02"`
	// Every supported pattern has work days, so the default hours are
	// mandatory; without them a work day resolves with no shift to clip.
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// applyTo fills the schedule fields from their wire forms. Returns a client
// error when a time of day does not parse or the hours are inverted.
func (req *employeeRequest) applyTo(emp *domain.Employee) error {
	emp.FullName = req.FullName
	emp.Position = req.Position
	emp.Role = domain.Role(req.Role)
	emp.Email = req.Email
	emp.Pattern = domain.SchedulePattern(req.Pattern)

	emp.AnchorDate = nil
	if req.AnchorDate != nil {
		anchor, err := time.Parse(domain.DateOnly, *req.AnchorDate)
		if err != nil {
			return errors.New("invalid anchor date")
		}
		emp.AnchorDate = &anchor
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		return errors.New("invalid start time")
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		return errors.New("invalid end time")
	}
	if !start.Before(end) {
		return errors.New("start time must be before end time")
	}
	emp.DefaultStart = &start
	emp.DefaultEnd = &end

	return nil
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		employeeRequest
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	emp := &domain.Employee{PasswordHash: string(hashedPassword)}
	if err := req.applyTo(emp); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateEmployee(r.Context(), emp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "employees_email_key":
			h.badRequest(w, r, errors.New("email already in use"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee created", emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)
	if err := req.applyTo(emp); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateEmployee(r.Context(), emp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "employees_email_key":
			h.badRequest(w, r, errors.New("email already in use"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "employee not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee updated", emp)
}

func (h *Handler) TerminateEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if err := h.repository.TerminateEmployee(r.Context(), emp.ID, time.Now().In(h.location)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "employee already terminated")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee terminated", nil)
}
