package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// NotificationHub fans survey events out to connected subscribers over
// websocket. Clients are keyed by user id; a user may hold several
// connections.
type NotificationHub struct {
	clients    map[*NotificationClient]bool
	register   chan *NotificationClient
	unregister chan *NotificationClient
	mutex      sync.RWMutex
	logger     *zap.Logger
}

type NotificationClient struct {
	hub    *NotificationHub
	socket *websocket.Conn
	send   chan []byte
	userID uint
}

// Notification is the wire format of a pushed event.
type Notification struct {
	Type        string `json:"type"` // response_received, survey_completed
	SurveyID    uint   `json:"survey_id"`
	SurveyTitle string `json:"survey_title"`
}

func NewNotificationHub(logger *zap.Logger) *NotificationHub {
	return &NotificationHub{
		clients:    make(map[*NotificationClient]bool),
		register:   make(chan *NotificationClient),
		unregister: make(chan *NotificationClient),
		logger:     logger,
	}
}

func (h *NotificationHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Debug("notification client connected", zap.Uint("user_id", client.userID))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.logger.Debug("notification client disconnected", zap.Uint("user_id", client.userID))
		}
	}
}

// NotifyUser pushes one notification to every connection of the user.
func (h *NotificationHub) NotifyUser(userID uint, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("marshal notification", zap.Error(err))
		return
	}

	h.mutex.Lock()
	for client := range h.clients {
		if client.userID != userID {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	h.mutex.Unlock()
}

// RegisterClient attaches a websocket connection to the hub and starts its
// pumps.
func (h *NotificationHub) RegisterClient(conn *websocket.Conn, userID uint) *NotificationClient {
	client := &NotificationClient{
		hub:    h,
		socket: conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (c *NotificationClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	// The feed is push-only; inbound frames are drained for control handling.
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("notification read error", zap.Error(err))
			}
			break
		}
	}
}

func (c *NotificationClient) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

// SubscriberSource lists who should be told about a survey's events.
type SubscriberSource interface {
	ActiveSubscribers(ctx context.Context, surveyID uint) ([]models.SurveyNotification, error)
}

// ResultsInvalidator drops cached aggregates for a survey.
type ResultsInvalidator interface {
	Invalidate(ctx context.Context, surveyID uint)
}

// NotificationService reacts to stored submissions: it invalidates the
// results cache and pushes events to active subscribers.
type NotificationService struct {
	subscribers SubscriberSource
	hub         *NotificationHub
	results     ResultsInvalidator
	logger      *zap.Logger
}

func NewNotificationService(subscribers SubscriberSource, hub *NotificationHub, results ResultsInvalidator, logger *zap.Logger) *NotificationService {
	return &NotificationService{subscribers: subscribers, hub: hub, results: results, logger: logger}
}

// SubmissionStored implements SubmissionListener.
func (s *NotificationService) SubmissionStored(ctx context.Context, survey *models.Survey, completed bool) {
	if s.results != nil {
		s.results.Invalidate(ctx, survey.ID)
	}
	if s.hub == nil {
		return
	}

	subs, err := s.subscribers.ActiveSubscribers(ctx, survey.ID)
	if err != nil {
		s.logger.Warn("list subscribers failed", zap.Uint("survey_id", survey.ID), zap.Error(err))
		return
	}
	for _, sub := range subs {
		if sub.NotifyOnResponse {
			s.hub.NotifyUser(sub.UserID, Notification{
				Type:        "response_received",
				SurveyID:    survey.ID,
				SurveyTitle: survey.Title,
			})
		}
		if completed && sub.NotifyOnCompletion {
			s.hub.NotifyUser(sub.UserID, Notification{
				Type:        "survey_completed",
				SurveyID:    survey.ID,
				SurveyTitle: survey.Title,
			})
		}
	}
}
