// AngelaMos | 2026
// handler.go

package notify

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/messhall/internal/core"
)

const (
	ReminderTitle = "Reminder!"
	ReminderBody  = "Please book your meal for tomorrow before going to bed."
)

type Broadcaster interface {
	Broadcast(title, body string) bool
}

type SendRequest struct {
	Title   string `json:"title"   validate:"required,min=1,max=100"`
	Message string `json:"message" validate:"required,min=1,max=500"`
}

type BroadcastResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	broadcaster Broadcaster
	validator   *validator.Validate
}

func NewHandler(broadcaster Broadcaster) *Handler {
	return &Handler{
		broadcaster: broadcaster,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Post("/reminders", h.SendReminder)
		r.Post("/notifications/send", h.Send)
	})
}

func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	if !h.broadcaster.Broadcast(ReminderTitle, ReminderBody) {
		core.JSONError(w, errQueueFull())
		return
	}

	core.Accepted(w, BroadcastResponse{
		Message: "Reminder notifications are being sent in the background.",
	})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if !h.broadcaster.Broadcast(req.Title, req.Message) {
		core.JSONError(w, errQueueFull())
		return
	}

	core.Accepted(w, BroadcastResponse{
		Message: "Notification is being sent in the background.",
	})
}

func errQueueFull() *core.AppError {
	return core.NewAppError(
		ErrQueueFull,
		"notification queue is full, try again shortly",
		http.StatusServiceUnavailable,
		"QUEUE_FULL",
	)
}
