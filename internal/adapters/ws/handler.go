package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"peram-marketplace-service/internal/adapters/metrics"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	eventBufferSize = 100
	requestTimeout  = 10 * time.Second
)

// WsHandler manages WebSocket connections and message routing
type WsHandler struct {
	clients       map[string]*WsClient // clientID -> Client
	clientsMu     sync.RWMutex
	eventChannels map[string]chan outbound.Event // clientID -> local event channel
	channelsMu    sync.RWMutex
	upgrader      websocket.Upgrader
	authService   inbound.AuthService
	bidService    inbound.BidService
	broadcaster   outbound.Broadcaster
	logger        zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader    websocket.Upgrader
	AuthService inbound.AuthService
	BidService  inbound.BidService
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:       make(map[string]*WsClient),
		eventChannels: make(map[string]chan outbound.Event),
		upgrader:      params.Upgrader,
		authService:   params.AuthService,
		bidService:    params.BidService,
		broadcaster:   params.Broadcaster,
		logger:        params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// NewUpgrader builds an upgrader with the configured buffer sizes, origins are checked by CORS upstream
func NewUpgrader(readBufferSize, writeBufferSize int) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  readBufferSize,
		WriteBufferSize: writeBufferSize,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// HandleWebSocket upgrades the connection, an optional token query parameter authenticates the socket
func (handler *WsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var principal *shared.Principal
	if token := r.URL.Query().Get("token"); token != "" {
		p, err := handler.authService.Authenticate(r.Context(), token)
		if err != nil {
			handler.logger.Debug().Err(err).Msg("Rejected WebSocket token")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		principal = p
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		Principal: principal,
		Conn:      conn,
		Handler:   handler,
		Logger:    handler.logger,
	})

	handler.registerClient(client)
	handler.createEventChannel(client.ID())

	if err := client.Send(NewWelcomeMessage()); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.ID()).Msg("Failed to queue welcome message")
	}

	client.Start()

	go handler.listenForClientEvents(client)

	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.ID()).Bool("authenticated", client.Authenticated()).Msg("WebSocket client connected")
}

func (handler *WsHandler) createEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		return eventChan
	}

	eventChan := make(chan outbound.Event, eventBufferSize)
	handler.eventChannels[clientID] = eventChan
	return eventChan
}

func (handler *WsHandler) getEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.RLock()
	defer handler.channelsMu.RUnlock()

	return handler.eventChannels[clientID]
}

// removeEventChannel forgets the channel without closing it, broadcasters may still hold a reference
func (handler *WsHandler) removeEventChannel(clientID string) {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	delete(handler.eventChannels, clientID)
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()

	handler.clients[client.ID()] = client
	metrics.WSConnected()
	handler.logger.Debug().Str("client_id", client.ID()).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	if _, ok := handler.clients[client.ID()]; !ok {
		handler.clientsMu.Unlock()
		return
	}
	delete(handler.clients, client.ID())
	total := len(handler.clients)
	handler.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := handler.broadcaster.UnsubscribeAll(ctx, client.ID()); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.ID()).Msg("Failed to drop client subscriptions")
	}

	client.Stop()
	handler.removeEventChannel(client.ID())
	metrics.WSDisconnected()

	handler.logger.Info().Str("client_id", client.ID()).Int("total_clients", total).Msg("WebSocket client disconnected")
}

// listenForClientEvents forwards broadcaster events to the socket
func (handler *WsHandler) listenForClientEvents(client *WsClient) {
	eventChan := handler.getEventChannel(client.ID())
	if eventChan == nil {
		handler.logger.Error().Str("client_id", client.ID()).Msg("No event channel found for client")
		return
	}

	for {
		select {
		case event := <-eventChan:
			if err := client.Send(convertEventToMessage(event)); err != nil {
				handler.logger.Error().Err(err).Str("client_id", client.ID()).Msg("Failed to send event to WebSocket client")
				continue
			}
			handler.logger.Debug().Str("client_id", client.ID()).Str("event_type", string(event.Type)).Msg("Sent event to WebSocket client")

		case <-client.ctx.Done():
			return
		}
	}
}

func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeSubscribe:
		return handler.handleSubscribe(client, msg)

	case MessageTypeUnsubscribe:
		return handler.handleUnsubscribe(client, msg)

	case MessageTypePlaceBid:
		return handler.handlePlaceBid(client, msg)

	default:
		handler.logger.Warn().Str("client_id", client.ID()).Str("message_type", string(msg.Type)).Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

func convertEventToMessage(event outbound.Event) *ServerMessage {
	msgType := MessageTypeProductUpdate
	switch event.Type {
	case outbound.EventTypeBidPlaced:
		msgType = MessageTypeBidPlaced
	case outbound.EventTypeAuctionClosed:
		msgType = MessageTypeAuctionClosed
	}

	productID := event.ProductID
	return &ServerMessage{
		Type:      msgType,
		ProductID: &productID,
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

// Close disconnects every client
func (handler *WsHandler) Close() {
	handler.clientsMu.RLock()
	clients := make([]*WsClient, 0, len(handler.clients))
	for _, client := range handler.clients {
		clients = append(clients, client)
	}
	handler.clientsMu.RUnlock()

	for _, client := range clients {
		client.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		handler.unregisterClient(client)
	}
}

func (handler *WsHandler) handleSubscribe(client *WsClient, msg *ClientMessage) error {
	ctx, cancel := context.WithTimeout(client.ctx, requestTimeout)
	defer cancel()

	eventChan := handler.getEventChannel(client.ID())
	if eventChan == nil {
		return shared.ErrClientEventChannelNotFound
	}

	if err := handler.broadcaster.Subscribe(ctx, *msg.ProductID, client.ID(), eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.ID()).Str("product_id", msg.ProductID.String()).Msg("Failed to subscribe to product")
		return err
	}

	response := NewServerMessage(MessageTypeSubscribed)
	response.ProductID = msg.ProductID

	handler.logger.Info().Str("client_id", client.ID()).Str("product_id", msg.ProductID.String()).Msg("Client subscribed to product")
	return client.Send(response)
}

func (handler *WsHandler) handleUnsubscribe(client *WsClient, msg *ClientMessage) error {
	ctx, cancel := context.WithTimeout(client.ctx, requestTimeout)
	defer cancel()

	if err := handler.broadcaster.Unsubscribe(ctx, *msg.ProductID, client.ID()); err != nil {
		return err
	}

	response := NewServerMessage(MessageTypeUnsubscribed)
	response.ProductID = msg.ProductID

	handler.logger.Info().Str("client_id", client.ID()).Str("product_id", msg.ProductID.String()).Msg("Client unsubscribed from product")
	return client.Send(response)
}

// handlePlaceBid places a bid for an authenticated socket, the accepted bid reaches
// subscribers through the broadcaster
func (handler *WsHandler) handlePlaceBid(client *WsClient, msg *ClientMessage) error {
	if !client.Authenticated() {
		return shared.ErrAuthenticationRequired
	}

	amount, _ := msg.amount()

	ctx, cancel := context.WithTimeout(client.ctx, requestTimeout)
	defer cancel()

	placed, err := handler.bidService.PlaceBid(ctx, inbound.PlaceBidRequest{
		ProductID: *msg.ProductID,
		BuyerID:   client.principal.UserID,
		Amount:    amount,
	})
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ProductID))
	}

	handler.logger.Info().
		Str("bid_id", placed.ID.String()).
		Str("product_id", msg.ProductID.String()).
		Str("user_id", client.principal.UserID.String()).
		Float64("amount", amount).
		Msg("Bid placed over WebSocket")
	return nil
}
