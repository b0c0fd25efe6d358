package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendBufferSize = 100
	sendTimeout    = 100 * time.Millisecond
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var errClientStopped = errors.New("client is stopped")

type WsClient struct {
	id         string
	principal  *shared.Principal
	conn       *websocket.Conn
	sendChan   chan *ServerMessage
	ctx        context.Context
	cancel     context.CancelFunc
	handler    *WsHandler
	workerPool *pond.WorkerPool
	stopped    bool
	mu         sync.Mutex
	logger     zerolog.Logger
}

type WsClientParams struct {
	Principal *shared.Principal
	Conn      *websocket.Conn
	Handler   *WsHandler
	Logger    zerolog.Logger
}

// NewClient creates a new WebSocket client, Principal is nil for anonymous sockets
func NewClient(params WsClientParams) *WsClient {
	ctx, cancel := context.WithCancel(context.Background())

	// the pool is stopped only through Stop so dispatch can check stopped under mu
	pool := pond.New(
		config.WSMaxWorkers,
		config.WSMaxCapacity,
		pond.Strategy(pond.Balanced()),
	)

	id := uuid.New().String()
	logCtx := params.Logger.With().Str("client_id", id)
	if params.Principal != nil {
		logCtx = logCtx.Str("user_id", params.Principal.UserID.String())
	}

	return &WsClient{
		id:         id,
		principal:  params.Principal,
		conn:       params.Conn,
		sendChan:   make(chan *ServerMessage, sendBufferSize),
		ctx:        ctx,
		cancel:     cancel,
		handler:    params.Handler,
		workerPool: pool,
		logger:     logCtx.Logger(),
	}
}

// ID returns the connection id used for broadcaster subscriptions
func (client *WsClient) ID() string {
	return client.id
}

// Authenticated reports whether the socket carried a valid token
func (client *WsClient) Authenticated() bool {
	return client.principal != nil
}

func (client *WsClient) Start() {
	go client.messageSender()
	go client.messageReceiver()
}

func (client *WsClient) Stop() {
	client.mu.Lock()
	if client.stopped {
		client.mu.Unlock()
		return
	}
	client.stopped = true
	client.mu.Unlock()

	// running tasks may still call Send, so the pool is stopped without holding mu
	client.cancel()
	client.conn.Close()

	if client.workerPool != nil {
		client.workerPool.Stop()
	}
}

// Send queues a message for the client
func (client *WsClient) Send(msg *ServerMessage) error {
	client.mu.Lock()
	if client.stopped {
		client.mu.Unlock()
		return errClientStopped
	}
	client.mu.Unlock()

	select {
	case client.sendChan <- msg:
		return nil
	case <-client.ctx.Done():
		return errClientStopped
	case <-time.After(sendTimeout):
		return fmt.Errorf("client send channel is full")
	}
}

func (client *WsClient) messageSender() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-client.sendChan:
			if err := client.sendMessage(msg); err != nil {
				client.logger.Error().Err(err).Msg("Failed to send message to client")
				client.cancel()
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.logger.Debug().Err(err).Msg("Ping to client failed")
				client.cancel()
				return
			}
		case <-client.ctx.Done():
			return
		}
	}
}

func (client *WsClient) messageReceiver() {
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				client.logger.Error().Err(err).Msg("WebSocket read error for client")
			} else {
				client.logger.Info().Str("error", err.Error()).Msg("WebSocket connection closed for client")
			}
			// Cancel context to notify handler about disconnection
			client.cancel()
			return
		}
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		client.logger.Debug().Str("message", string(message)).Msg("Message received from client")

		if !client.dispatch(message) {
			client.logger.Warn().Msg("Dropped client message, worker pool unavailable")
		}
	}
}

// dispatch hands a frame to the worker pool, it reports false once the client
// is stopped or the queue is full
func (client *WsClient) dispatch(message []byte) bool {
	client.mu.Lock()
	defer client.mu.Unlock()

	if client.stopped {
		return false
	}

	return client.workerPool.TrySubmit(func() {
		if err := client.handleMessage(message); err != nil {
			client.logger.Warn().Err(err).Msg("Failed to handle client message")
			if sendErr := client.Send(NewErrorMessage(err.Error(), nil)); sendErr != nil && !errors.Is(sendErr, errClientStopped) {
				client.logger.Error().Err(sendErr).Msg("Failed to report error to client")
			}
		}
	})
}

func (client *WsClient) sendMessage(msg *ServerMessage) error {
	client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return client.conn.WriteJSON(msg)
}

func (client *WsClient) handleMessage(data []byte) error {
	msg, err := ParseClientMessage(data)
	if err != nil {
		return fmt.Errorf("invalid message format: %w", err)
	}

	if err := msg.Validate(); err != nil {
		return fmt.Errorf("message validation failed: %w", err)
	}

	if msg.Type == MessageTypePing {
		return client.Send(NewServerMessage(MessageTypePong))
	}

	if client.handler != nil {
		return client.handler.HandleClientMessage(client, msg)
	}
	return fmt.Errorf("handler not available")
}
