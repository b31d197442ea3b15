// AngelaMos | 2026
// handler.go

package notice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/notices", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Post)
			r.Delete("/{noticeID}", h.Delete)
		})
	})
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req CreateNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	n, err := h.service.Post(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, n)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", defaultPageSize),
	}
	params.Normalize()

	notices, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, notices, params.Page, params.PageSize, total)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "noticeID")
	if _, err := uuid.Parse(id); err != nil {
		core.NotFound(w, "notice")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "notice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
