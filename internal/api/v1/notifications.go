package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/api/common"
	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/service"
)

// listNotifications handles GET /v1/notifications
func (routes *Routes) listNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}

	var opts []service.Option[service.ListNotificationsOptions]
	if raw := r.URL.Query().Get("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			common.WriteErrorResponse(w, "invalid unread parameter: must be a boolean", http.StatusBadRequest)
			return
		}
		if unread {
			opts = append(opts, service.WithUnreadOnly())
		}
	}
	limit, hasLimit, err := parseLimit(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if hasLimit {
		opts = append(opts, service.WithLimit[service.ListNotificationsOptions](limit))
	}

	notifications, err := routes.service.ListNotifications(r.Context(), actor, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, notifications, http.StatusOK)
}

// markRead handles PUT /v1/notifications/{id}/read
func (routes *Routes) markRead(w http.ResponseWriter, r *http.Request) {
	routes.setRead(w, r, routes.service.MarkRead)
}

// markUnread handles DELETE /v1/notifications/{id}/read
func (routes *Routes) markUnread(w http.ResponseWriter, r *http.Request) {
	routes.setRead(w, r, routes.service.MarkUnread)
}

type readToggle func(ctx context.Context, actor donation.Actor, id uuid.UUID) (*notify.Notification, error)

func (routes *Routes) setRead(w http.ResponseWriter, r *http.Request, toggle readToggle) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	n, err := toggle(r.Context(), actor, id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, n, http.StatusOK)
}
