package user

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(h.deps.AllowedOrigins) == 0 || slices.Contains(h.deps.AllowedOrigins, origin)
		},
	}
}

// CartWebSocket pousse le panier à jour à chaque événement publié sur cart:<userID>.
func (h *Handler) CartWebSocket(c *gin.Context) {
	if h.deps.Subscriber == nil {
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Status: "error", Message: "Synchronisation temps réel indisponible"})
		return
	}
	userID := c.GetString("user_id")
	logger := log.Ctx(c.Request.Context())

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	pubsub, err := h.deps.Subscriber.SubscribeCart(ctx, userID)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	defer pubsub.Close()

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("❌ Erreur upgrade WebSocket")
		return
	}
	defer conn.Close()

	// lecture : seule la détection de fermeture côté client nous intéresse
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.pushCart(ctx, conn, userID, "connected"); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	events := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			var event cache.CartEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Str("payload", msg.Payload).Msg("événement panier illisible")
				continue
			}
			if err := h.pushCart(ctx, conn, userID, event.Type); err != nil {
				logger.Debug().Err(err).Msg("WebSocket fermé")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

type cartMessage struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	Cart  any    `json:"cart"`
}

func (h *Handler) pushCart(ctx context.Context, conn *websocket.Conn, userID, event string) error {
	cart, err := h.deps.Cart.Snapshot(ctx, userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CartWebSocket").Msg("")
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(cartMessage{Type: "cart_updated", Event: event, Cart: cart})
}
