package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/server/middleware"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/chat", h.chat)
}

// maxBodyBytes bounds the /chat request body.
const maxBodyBytes = 64 << 10

type chatRequest struct {
	Message any `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) chat(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req chatRequest
	// A body that fails to decode or exceeds maxBodyBytes counts as empty input, as does a non-string message.
	_ = c.ShouldBindJSON(&req)
	message, _ := req.Message.(string)

	result := h.Svc.Handle(c.Request.Context(), message)
	c.Set(middleware.ChatRouteKey, string(result.Route))
	if result.Topic != "" {
		c.Set(middleware.TopicKey, string(result.Topic))
	}
	respond.OK(c, chatResponse{Response: result.Reply})
}

// RecoverPanic answers a panicking POST /chat with the fallback reply so the
// endpoint keeps its always-200 contract. Other routes are left alone.
func (h *Handler) RecoverPanic(c *gin.Context) bool {
	if c.Request.Method != http.MethodPost || c.FullPath() != "/chat" {
		return false
	}
	respond.OK(c, chatResponse{Response: FallbackReply})
	return true
}
