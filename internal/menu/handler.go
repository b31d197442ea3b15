// AngelaMos | 2026
// handler.go

package menu

import (
	"encoding/json"
	"errors"
	"fmt"
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
	authenticator, convenorOnly func(http.Handler) http.Handler,
) {
	r.Route("/menus", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{date}", h.Get)
		r.With(convenorOnly).Post("/", h.Set)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		core.BadRequest(w, "date must be formatted as YYYY-MM-DD")
		return
	}

	m, err := h.service.Get(r.Context(), date)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NewAppError(
				err,
				fmt.Sprintf("No menu has been set for %s.", date),
				http.StatusNotFound,
				"NOT_FOUND",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMenuResponse(m))
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Set(r.Context(), req, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "menu_date and at least one lunch or dinner option are required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToMenuResponse(m))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from, errFrom := core.ParseDate(r.URL.Query().Get("from"))
	to, errTo := core.ParseDate(r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		core.BadRequest(w, "from and to must be formatted as YYYY-MM-DD")
		return
	}

	menus, err := h.service.ListRange(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, fmt.Sprintf("from must not be after to and the range is limited to %d days", maxRangeDays))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMenuResponseList(menus))
}
