// AngelaMos | 2026
// handler.go

package meallist

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, convenorOnly func(http.Handler) http.Handler,
) {
	r.Route("/meallist", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me/today", h.MyToday)

		r.With(adminOnly).Get("/today", h.Today)
		r.With(adminOnly).Get("/{date}", h.ForDate)
		r.With(convenorOnly).Get("/{date}/download", h.Download)
	})
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	h.writeSummary(w, r, h.service.Today())
}

func (h *Handler) ForDate(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	h.writeSummary(w, r, date)
}

func (h *Handler) writeSummary(w http.ResponseWriter, r *http.Request, date core.Date) {
	summary, err := h.service.ForDate(r.Context(), date)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, err, fmt.Sprintf("No bookings found for %s.", date))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, summary)
}

func (h *Handler) MyToday(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.MyToday(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, err, "You have not booked a meal for today yet!")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, entry)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	file, err := h.service.Export(r.Context(), date, format)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, err, fmt.Sprintf("No bookings found for %s to download.", date))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		slog.Warn("write meal list download", "error", err, "file", file.Name)
	}
}

func dateParam(w http.ResponseWriter, r *http.Request) (core.Date, bool) {
	date, err := core.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		core.BadRequest(w, "date must be formatted as YYYY-MM-DD")
		return core.Date{}, false
	}
	return date, true
}

func notFound(w http.ResponseWriter, err error, message string) {
	core.JSONError(w, core.NewAppError(err, message, http.StatusNotFound, "NOT_FOUND"))
}
