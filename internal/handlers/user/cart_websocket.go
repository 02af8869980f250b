package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"lorve_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// CartWebSocket streams the session cart: one snapshot on connect, then a
// fresh snapshot on every change published for the cart.
func (h *Handler) CartWebSocket(c *gin.Context) {
	key := middleware.CartKey(c)
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No cart session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.CartEvents.Subscribe(ctx, key)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		log.Printf("❌ Subscribe cart events: %v", err)
		return
	}
	events := sub.Channel()

	// the client only sends control frames; a read error means it left
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.pushCart(ctx, conn, key, "connected"); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			if err := h.pushCart(ctx, conn, key, "cart_updated"); err != nil {
				log.Printf("❌ WebSocket send: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) pushCart(ctx context.Context, conn *websocket.Conn, key, kind string) error {
	ct, err := h.Carts.Load(ctx, key)
	if err != nil {
		return err
	}
	frame := cartView(ct)
	frame["type"] = kind
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(frame)
}
