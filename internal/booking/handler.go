// AngelaMos | 2026
// handler.go

package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, writeLimit func(http.Handler) http.Handler,
) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.ListMine)
		r.Get("/me/today", h.MyToday)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)

			r.Post("/", h.Submit)
			r.Patch("/update-lunch", h.UpdateLunch)
			r.Patch("/update-dinner", h.UpdateDinner)
			r.Delete("/{date}", h.Cancel)
		})
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BookingDate.IsZero() {
		core.BadRequest(w, "booking_date is required")
		return
	}

	b, inserted, err := h.service.Submit(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.BookingDate,
		req.LunchPick,
		req.DinnerPick,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if inserted {
		core.Created(w, ToBookingResponse(b))
		return
	}
	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) UpdateLunch(w http.ResponseWriter, r *http.Request) {
	var req LunchUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BookingDate.IsZero() {
		core.BadRequest(w, "booking_date is required")
		return
	}

	b, err := h.service.UpdateLunch(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.BookingDate,
		req.LunchPick,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) UpdateDinner(w http.ResponseWriter, r *http.Request) {
	var req DinnerUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BookingDate.IsZero() {
		core.BadRequest(w, "booking_date is required")
		return
	}

	b, err := h.service.UpdateDinner(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.BookingDate,
		req.DinnerPick,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		core.BadRequest(w, "date must be formatted as YYYY-MM-DD")
		return
	}

	if err := h.service.Cancel(r.Context(), middleware.GetUserID(r.Context()), date); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToHistory(bookings))
}

func (h *Handler) MyToday(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.MyToday(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

var ruleStatus = []struct {
	kind   error
	status int
	code   string
}{
	{ErrPastDate, http.StatusBadRequest, "PAST_DATE"},
	{ErrTodayCutoff, http.StatusForbidden, "TODAY_CUTOFF"},
	{ErrWindowRestriction, http.StatusForbidden, "WINDOW_RESTRICTED"},
	{ErrLunchCutoff, http.StatusForbidden, "LUNCH_CUTOFF"},
	{ErrMenuNotSet, http.StatusNotFound, "MENU_NOT_SET"},
	{ErrInvalidMenuSelection, http.StatusBadRequest, "INVALID_MENU_SELECTION"},
	{ErrMessInactive, http.StatusForbidden, "MESS_INACTIVE"},
	{core.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{core.ErrConflict, http.StatusConflict, "CONFLICT"},
}

// writeError renders the first rule violation in err. Anything that is not
// a rule violation is a 500, except an unknown caller.
func writeError(w http.ResponseWriter, err error) {
	var rule *RuleError
	if errors.As(err, &rule) {
		for _, rs := range ruleStatus {
			if errors.Is(rule.Kind, rs.kind) {
				core.JSONError(w, core.NewAppError(rule.Kind, rule.Reason, rs.status, rs.code))
				return
			}
		}
	}

	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "user not found")
	case errors.Is(err, core.ErrConflict):
		core.JSONError(w, core.NewAppError(
			err,
			"A booking for this date was written concurrently, please retry.",
			http.StatusConflict,
			"CONFLICT",
		))
	default:
		core.InternalServerError(w, err)
	}
}
