package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

type fakeMessaging struct {
	handleErr error
	sendErr   error
	payloads  []models.WebhookPayload
	sent      []models.OutboundMessageRequest
}

func (f *fakeMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || token != "hook" {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	f.payloads = append(f.payloads, payload)
	return f.handleErr
}

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return f.sendErr
}

func webhookEngine(svc *fakeMessaging) *gin.Engine {
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func TestWebhookHandler_Verify(t *testing.T) {
	engine := webhookEngine(&fakeMessaging{})

	rec := do(t, engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=hook&hub.challenge=1158201444", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1158201444", rec.Body.String())

	rec = do(t, engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookHandler_ReceiveAcknowledgesFailures(t *testing.T) {
	svc := &fakeMessaging{handleErr: errors.New("send failed")}
	engine := webhookEngine(svc)

	rec := do(t, engine, http.MethodPost, "/webhook", map[string]any{"object": "whatsapp_business_account"})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.payloads, 1)

	rec = do(t, engine, http.MethodPost, "/webhook", "[")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_SendMessage(t *testing.T) {
	svc := &fakeMessaging{}
	engine := webhookEngine(svc)

	rec := do(t, engine, http.MethodPost, "/send-message", map[string]any{"to": "224600000000", "message": "stock check"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.sent, 1)
	assert.Equal(t, "stock check", svc.sent[0].Message)

	rec = do(t, engine, http.MethodPost, "/send-message", map[string]any{"to": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.sendErr = errors.New("401")
	rec = do(t, engine, http.MethodPost, "/send-message", map[string]any{"to": "1", "message": "x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCommandCount_IgnoresStatusReceipts(t *testing.T) {
	payload := models.WebhookPayload{Entry: []models.WebhookEntry{
		{Changes: []models.WebhookChange{
			{Value: models.WebhookValue{Messages: []models.InboundMessage{{ID: "m1"}, {ID: "m2"}}}},
			{Value: models.WebhookValue{Statuses: []models.MessageStatus{{}}}},
		}},
		{Changes: []models.WebhookChange{
			{Value: models.WebhookValue{Messages: []models.InboundMessage{{ID: "m3"}}}},
		}},
	}}

	assert.Equal(t, 3, commandCount(payload))
	assert.Zero(t, commandCount(models.WebhookPayload{Object: "whatsapp_business_account"}))
}
