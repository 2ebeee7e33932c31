package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
	service "github.com/mamadbah2/fueldepot/internal/service/whatsapp"
)

// WebhookHandler is the operator chat surface: depot commands arrive through
// the Meta webhook and are answered with stock, fleet and account replies.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger.Named("chat")}
}

// Verify answers the subscription handshake Meta performs before it starts
// delivering operator commands.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	challenge, err := h.svc.VerifyWebhookToken(mode, c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("chat subscription rejected", zap.String("mode", mode), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive dispatches the operator commands carried by one callback. A failed
// reply is logged and still acknowledged, otherwise Meta redelivers the
// command and the operator gets the answer twice.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("unreadable command callback", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	commands := commandCount(payload)
	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("command reply failed", zap.Int("commands", commands), zap.Error(err))
	} else if commands > 0 {
		h.logger.Debug("commands answered", zap.Int("commands", commands))
	}
	c.Status(http.StatusOK)
}

// SendMessage lets the back office push a free-form notice to an operator
// outside of a command exchange.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("notice rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("notice not delivered", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}
	c.Status(http.StatusAccepted)
}

// commandCount counts inbound operator messages; delivery receipts are not commands.
func commandCount(payload models.WebhookPayload) int {
	n := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			n += len(change.Value.Messages)
		}
	}
	return n
}
