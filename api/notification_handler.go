package api

import (
	"encoding/json"
	"net/http"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
	"github.com/OmarMoamarFostok/projectmanagement-backend/errs"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type notificationHandler struct {
	responder        Responder
	logger           zerolog.Logger
	notificationRepo *database.NotificationRepo
}

func newNotificationHandler(notificationRepo *database.NotificationRepo) notificationHandler {
	logger := log.With().Str("handlerName", "notificationHandler").Logger()

	return notificationHandler{
		responder:        NewResponder(logger),
		logger:           logger,
		notificationRepo: notificationRepo,
	}
}

// NotificationCollection represents the actor's notifications
type NotificationCollection struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int                    `json:"total"`
}

func (h notificationHandler) getAllNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		notifications, err := h.notificationRepo.FindByRecipient(actor.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("notifications", err))
			return
		}

		h.responder.WriteJSON(w, NotificationCollection{Notifications: notifications, Total: len(notifications)})
	}
}

type updateNotificationRequest struct {
	IsRead *bool `json:"is_read"`
}

// updateNotification flips the read flag on one of the actor's own
// notifications. Nothing else about a notification is mutable.
func (h notificationHandler) updateNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid notificationID"))
			return
		}

		var req updateNotificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("notification", err))
			return
		}
		if req.IsRead == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("is_read"))
			return
		}

		notification, err := h.notificationRepo.SetRead(notificationID, actor.ID, *req.IsRead)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("notification", err))
			return
		}

		h.responder.WriteJSON(w, notification)
	}
}

func (h notificationHandler) markAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		if err := h.notificationRepo.MarkAllRead(actor.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("notifications", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}
