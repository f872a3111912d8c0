package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/websocket"

	"github.com/gin-gonic/gin"
)

const (
	frameFilter       = "filter"
	frameUpdateStatus = "update_status"
)

type statusFrame struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// LiveHandler upgrades to a websocket and streams one live view per
// connection. The view lives exactly as long as the socket.
type LiveHandler struct {
	dashboardService services.DashboardService
	analyticsService services.AnalyticsService
	accountService   services.AccountService
	sockets          *websocket.Handler
	logger           *logger.Logger
}

func NewLiveHandler(
	dashboardService services.DashboardService,
	analyticsService services.AnalyticsService,
	accountService services.AccountService,
	sockets *websocket.Handler,
	log *logger.Logger,
) *LiveHandler {
	return &LiveHandler{
		dashboardService: dashboardService,
		analyticsService: analyticsService,
		accountService:   accountService,
		sockets:          sockets,
		logger:           log.WithComponent("live_handler"),
	}
}

func (h *LiveHandler) Dashboard(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	view, err := h.dashboardService.Watch(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	defer view.Close()

	client, err := h.accept(c, session, "dashboard", nil)
	if err != nil {
		return
	}
	stream(client, view, h.logger)
}

func (h *LiveHandler) Analytics(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	view, err := h.analyticsService.Watch(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	defer view.Close()

	client, err := h.accept(c, session, "analytics", nil)
	if err != nil {
		return
	}
	stream(client, view, h.logger)
}

// Accounts streams a role's management table. The client may send filter
// frames, which are debounced, and update_status frames, which are applied
// optimistically and answered with a mutation or an error frame.
func (h *LiveHandler) Accounts(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := requireSession(c)
		if !ok {
			return
		}

		var filter models.AccountFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			utils.ValidationErrorResponse(c, err)
			return
		}

		ctx := c.Request.Context()
		view, err := h.accountService.Watch(ctx, role, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		defer view.Close()

		client, err := h.accept(c, session, role.Label()+"s", func(client *websocket.Client, msg websocket.Message) {
			h.handleAccountFrame(ctx, session, view, client, msg)
		})
		if err != nil {
			return
		}
		stream(client, view.LiveView, h.logger)
	}
}

func (h *LiveHandler) handleAccountFrame(ctx context.Context, session *models.Session, view *services.AccountView, client *websocket.Client, msg websocket.Message) {
	switch msg.Type {
	case frameFilter:
		var filter models.AccountFilter
		if err := json.Unmarshal(msg.Data, &filter); err != nil {
			client.SendError(utils.ErrInvalidRequest)
			return
		}
		if err := view.SetFilter(filter); err != nil {
			client.SendError(frameError(err))
		}

	case frameUpdateStatus:
		var frame statusFrame
		if err := json.Unmarshal(msg.Data, &frame); err != nil || frame.ID == "" {
			client.SendError(utils.ErrInvalidRequest)
			return
		}
		mutation, err := view.UpdateStatus(ctx, session.UID, frame.ID, frame.Status)
		if err != nil {
			h.logger.WithError(err).WithField("account_id", frame.ID).Warn("Live status update failed")
			client.SendError(frameError(err))
			return
		}
		client.Send(websocket.MessageMutation, mutation)

	default:
		client.SendError("unknown message type " + msg.Type)
	}
}

func (h *LiveHandler) accept(c *gin.Context, session *models.Session, feed string, onMessage websocket.MessageHandler) (*websocket.Client, error) {
	client, err := h.sockets.Accept(c, session.ID, session.UID, feed, onMessage)
	if err != nil {
		if errors.Is(err, websocket.ErrTooManyConnections) {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "TOO_MANY_CONNECTIONS", err.Error())
		} else {
			h.logger.WithError(err).WithField("feed", feed).Warn("WebSocket upgrade failed")
		}
		return nil, err
	}
	return client, nil
}

// stream forwards every value of the view to the client until either side
// ends. A failed view is reported with an error frame before the socket is
// closed.
func stream[T any](client *websocket.Client, view *services.LiveView[T], log *logger.Logger) {
	for {
		select {
		case value, ok := <-view.Updates():
			if !ok {
				if err := view.Err(); err != nil {
					log.WithError(err).WithField("feed", client.Feed).Warn("Live view ended")
					client.SendError(frameError(err))
				}
				client.Close()
				return
			}
			if err := client.Send(websocket.MessageSnapshot, value); err != nil {
				return
			}

		case <-client.Done():
			return
		}
	}
}
