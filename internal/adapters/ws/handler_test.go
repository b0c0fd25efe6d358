package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"peram-marketplace-service/internal/adapters/broadcaster"
	"peram-marketplace-service/internal/adapters/memory"
	"peram-marketplace-service/internal/adapters/token"
	"peram-marketplace-service/internal/app"
	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/domain/user"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	server     *httptest.Server
	handler    *WsHandler
	bids       *app.BidService
	issuer     *token.JWTIssuer
	productID  uuid.UUID
	buyerToken string
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	repos := memory.NewStore().Repositories()
	issuer := token.NewJWTIssuer("ws-test-secret", time.Hour)
	local := broadcaster.NewLocalBroadcaster(broadcaster.LocalBroadcasterParams{Logger: logger})

	now := time.Now().UTC()
	seller := &user.User{ID: uuid.New(), Email: "seller@example.com", Name: "seller", CreatedAt: now, UpdatedAt: now}
	buyer := &user.User{ID: uuid.New(), Email: "buyer@example.com", Name: "buyer", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Users.Create(ctx, seller))
	require.NoError(t, repos.Users.Create(ctx, buyer))

	cat := &category.Category{ID: uuid.New(), Name: "Bikes", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Categories.Create(ctx, cat))

	products := app.NewProductService(app.ProductServiceParams{
		ProductRepo:  repos.Products,
		CategoryRepo: repos.Categories,
		BidRepo:      repos.Bids,
		Logger:       logger,
	})
	listed, err := products.CreateProduct(ctx, inbound.CreateProductRequest{
		SellerID:    seller.ID,
		Title:       "Road bike",
		CategoryID:  cat.ID,
		StartingBid: 100,
	})
	require.NoError(t, err)

	bids := app.NewBidService(app.BidServiceParams{
		BidRepo:     repos.Bids,
		ProductRepo: repos.Products,
		Broadcaster: local,
		Logger:      logger,
	})
	auth := app.NewLocalAuthService(app.LocalAuthServiceParams{
		UserRepo: repos.Users,
		Tokens:   issuer,
		Logger:   logger,
	})

	handler := NewHandler(WsHandlerParams{
		Upgrader:    NewUpgrader(1024, 1024),
		AuthService: auth,
		BidService:  bids,
		Broadcaster: local,
		Logger:      logger,
	})
	server := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	t.Cleanup(func() {
		handler.Close()
		server.Close()
	})

	buyerToken, _, err := issuer.Issue(shared.Principal{UserID: buyer.ID, Email: buyer.Email})
	require.NoError(t, err)

	return &wsFixture{
		server:     server,
		handler:    handler,
		bids:       bids,
		issuer:     issuer,
		productID:  listed.ID,
		buyerToken: buyerToken,
	}
}

func (f *wsFixture) dial(t *testing.T, tokenValue string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	if tokenValue != "" {
		url += "?token=" + tokenValue
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := readMessage(t, conn)
	require.Equal(t, MessageTypeWelcome, welcome.Type)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWsHandler_WelcomeAndPing(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	assert.Equal(t, MessageTypePong, readMessage(t, conn).Type)
}

func TestWsHandler_RejectsInvalidToken(t *testing.T) {
	f := newWSFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWsHandler_SubscriberReceivesBid(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "product_id": f.productID}))
	subscribed := readMessage(t, conn)
	require.Equal(t, MessageTypeSubscribed, subscribed.Type)
	require.NotNil(t, subscribed.ProductID)
	assert.Equal(t, f.productID, *subscribed.ProductID)

	principal, err := f.issuer.Parse(f.buyerToken)
	require.NoError(t, err)
	_, err = f.bids.PlaceBid(context.Background(), inbound.PlaceBidRequest{
		ProductID: f.productID,
		BuyerID:   principal.UserID,
		Amount:    150,
	})
	require.NoError(t, err)

	event := readMessage(t, conn)
	assert.Equal(t, MessageTypeBidPlaced, event.Type)
	require.NotNil(t, event.ProductID)
	assert.Equal(t, f.productID, *event.ProductID)
	assert.Equal(t, 150.0, event.Data["amount"])
}

func TestWsHandler_PlaceBidRequiresAuthentication(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "")

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":       "place_bid",
		"product_id": f.productID,
		"data":       map[string]any{"amount": 150},
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)
	require.NotNil(t, msg.Error)
	assert.Equal(t, shared.ErrAuthenticationRequired.Error(), *msg.Error)
}

func TestWsHandler_AuthenticatedBidIsBroadcast(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, f.buyerToken)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "product_id": f.productID}))
	require.Equal(t, MessageTypeSubscribed, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":       "place_bid",
		"product_id": f.productID,
		"data":       map[string]any{"amount": 120},
	}))
	event := readMessage(t, conn)
	assert.Equal(t, MessageTypeBidPlaced, event.Type)

	// too low now that the current bid is 120
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":       "place_bid",
		"product_id": f.productID,
		"data":       map[string]any{"amount": 110},
	}))
	rejected := readMessage(t, conn)
	assert.Equal(t, MessageTypeError, rejected.Type)
	require.NotNil(t, rejected.Error)
	assert.Equal(t, shared.ErrBidAmountTooLow.Error(), *rejected.Error)
}

func TestWsHandler_UnsubscribeOnDisconnect(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "product_id": f.productID}))
	require.Equal(t, MessageTypeSubscribed, readMessage(t, conn).Type)
	require.Equal(t, 1, f.handler.GetConnectedClients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return f.handler.GetConnectedClients() == 0 }, 5*time.Second, 20*time.Millisecond)
}

func (f *wsFixture) connectedClient(t *testing.T) *WsClient {
	t.Helper()
	f.handler.clientsMu.RLock()
	defer f.handler.clientsMu.RUnlock()
	require.Len(t, f.handler.clients, 1)
	for _, client := range f.handler.clients {
		return client
	}
	return nil
}

func TestWsClient_DispatchAfterStop(t *testing.T) {
	f := newWSFixture(t)
	f.dial(t, "")
	client := f.connectedClient(t)

	assert.True(t, client.dispatch([]byte(`{"type":"ping"}`)))

	client.Stop()
	assert.NotPanics(t, func() {
		assert.False(t, client.dispatch([]byte(`{"type":"ping"}`)))
	})
	assert.Eventually(t, func() bool { return f.handler.GetConnectedClients() == 0 }, 5*time.Second, 20*time.Millisecond)
}

func TestConvertEventToMessage(t *testing.T) {
	productID := uuid.New()
	for eventType, expected := range map[outbound.EventType]MessageType{
		outbound.EventTypeBidPlaced:      MessageTypeBidPlaced,
		outbound.EventTypeAuctionClosed:  MessageTypeAuctionClosed,
		outbound.EventTypeProductCreated: MessageTypeProductUpdate,
	} {
		msg := convertEventToMessage(outbound.Event{Type: eventType, ProductID: productID})
		assert.Equal(t, expected, msg.Type, string(eventType))
		assert.Equal(t, productID, *msg.ProductID)
	}
}
