package controller

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"creative-flow-be/internal/config"
	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/pkg/serverutils"
	"creative-flow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "test-server-key"

type stubLogger struct{}

func (stubLogger) Debug(string, string, map[string]interface{}) {}
func (stubLogger) Info(string, string, map[string]interface{})  {}
func (stubLogger) Warn(string, string, map[string]interface{})  {}
func (stubLogger) Error(string, string, map[string]interface{}) {}
func (stubLogger) Sync() error                                  { return nil }

// stubBillingService records which handler fired and returns a scripted
// error.
type stubBillingService struct {
	handled []string
	nextErr error
}

func (s *stubBillingService) GetPlans(context.Context) ([]*dto.PlanResponse, error) { return nil, nil }
func (s *stubBillingService) CreateCheckout(context.Context, uuid.UUID, *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	return nil, nil
}
func (s *stubBillingService) GetSubscriptionStatus(context.Context, uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	return nil, nil
}
func (s *stubBillingService) HandleCheckoutCompleted(_ context.Context, _ *dto.CheckoutCompletedEvent) error {
	s.handled = append(s.handled, "checkout.completed")
	return s.nextErr
}
func (s *stubBillingService) HandleInvoicePaid(_ context.Context, _ *dto.InvoicePaidEvent) error {
	s.handled = append(s.handled, "invoice.paid")
	return s.nextErr
}
func (s *stubBillingService) HandleInvoicePaymentFailed(_ context.Context, _ *dto.InvoicePaymentFailedEvent) error {
	s.handled = append(s.handled, "invoice.payment_failed")
	return s.nextErr
}
func (s *stubBillingService) HandleSubscriptionUpdated(_ context.Context, _ *dto.SubscriptionUpdatedEvent) error {
	s.handled = append(s.handled, "subscription.updated")
	return s.nextErr
}
func (s *stubBillingService) HandleSubscriptionDeleted(_ context.Context, _ *dto.SubscriptionDeletedEvent) error {
	s.handled = append(s.handled, "subscription.deleted")
	return s.nextErr
}

func newWebhookApp(stub *stubBillingService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	ctrl := NewBillingController(stub, config.BillingConfig{ServerKey: testServerKey}, stubLogger{})
	ctrl.RegisterRoutes(app.Group("/api"))
	return app
}

func signedWebhook(eventType string, userId uuid.UUID) *dto.ProviderWebhookRequest {
	req := &dto.ProviderWebhookRequest{
		EventId:      "evt_test",
		EventType:    eventType,
		SessionId:    "sess_1",
		Subscription: "sub_1",
		Status:       "active",
		GrossAmount:  19.99,
		Metadata: map[string]string{
			"user_id":   userId.String(),
			"plan_slug": "pro",
		},
	}
	input := req.EventId + req.Status + fmt.Sprintf("%.2f", req.GrossAmount) + testServerKey
	req.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return req
}

func postWebhook(t *testing.T, app *fiber.App, req *dto.ProviderWebhookRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/billing/provider/notification", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(httpReq, -1)
	require.NoError(t, err)
	return resp
}

func TestWebhook_DispatchesByEventType(t *testing.T) {
	for _, eventType := range []string{
		"checkout.completed",
		"invoice.paid",
		"invoice.payment_failed",
		"subscription.updated",
		"subscription.deleted",
	} {
		t.Run(eventType, func(t *testing.T) {
			stub := &stubBillingService{}
			app := newWebhookApp(stub)

			resp := postWebhook(t, app, signedWebhook(eventType, uuid.New()))
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, []string{eventType}, stub.handled)
		})
	}
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	stub := &stubBillingService{}
	app := newWebhookApp(stub)

	req := signedWebhook("checkout.completed", uuid.New())
	req.SignatureKey = "forged"

	resp := postWebhook(t, app, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, stub.handled)
}

func TestWebhook_AcksUnknownEventType(t *testing.T) {
	stub := &stubBillingService{}
	app := newWebhookApp(stub)

	resp := postWebhook(t, app, signedWebhook("charge.refunded", uuid.New()))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, stub.handled)
}

func TestWebhook_AcksCapacityRejection(t *testing.T) {
	stub := &stubBillingService{nextErr: service.ErrCapacityExceeded}
	app := newWebhookApp(stub)

	// The rejection is final; a 500 would only trigger pointless retries.
	resp := postWebhook(t, app, signedWebhook("checkout.completed", uuid.New()))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhook_TransientFailureTriggersRetry(t *testing.T) {
	stub := &stubBillingService{nextErr: errors.New("db unavailable")}
	app := newWebhookApp(stub)

	resp := postWebhook(t, app, signedWebhook("invoice.paid", uuid.New()))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestWebhook_IgnoresCheckoutWithoutUserMetadata(t *testing.T) {
	stub := &stubBillingService{}
	app := newWebhookApp(stub)

	req := signedWebhook("checkout.completed", uuid.New())
	// Metadata is not covered by the signature, so no re-signing needed.
	req.Metadata = map[string]string{"plan_slug": "pro"}

	resp := postWebhook(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, stub.handled)
}
