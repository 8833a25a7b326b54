package admin

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"inkstudio/internal/modules/sync"
	jwtsvc "inkstudio/internal/pkg/jwt"
	"inkstudio/internal/pkg/response"
)

// Handler implements the password gate and the console-only operations.
// The gate is obscurity, not authentication: a shared PIN compared
// directly, as the site has always worked. Hardening it is out of scope.
type Handler struct {
	pin      string
	jwt      *jwtsvc.Service
	sync     *sync.Service
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(pin string, jwt *jwtsvc.Service, syncSvc *sync.Service, hub *Hub) *Handler {
	return &Handler{
		pin:  pin,
		jwt:  jwt,
		sync: syncSvc,
		hub:  hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the unauthenticated gate endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
}

// RegisterAdminRoutes mounts the gated endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.TriggerSync)
	rg.GET("/ws", h.Websocket)
}

type loginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.PIN), []byte(h.pin)) != 1 {
		response.Error(c, http.StatusUnauthorized, "WRONG_PIN", "Wrong password")
		return
	}

	token, err := h.jwt.GenerateToken(uuid.NewString())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token")
		return
	}

	// First-authorization sync: the console wants fresh data the moment it
	// opens, but login must not block on the relay.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := h.sync.Reconcile(ctx); err != nil {
			log.Printf("admin: login sync: %v", err)
		}
	}()

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

func (h *Handler) TriggerSync(c *gin.Context) {
	res, err := h.sync.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusBadGateway, "SYNC_FAILED", "Could not reach the relay")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sync": res})
}

func (h *Handler) Websocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	id := h.hub.Register(conn)

	// Reader loop only drains control frames; the hub owns all writes.
	go func() {
		defer h.hub.Unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
