package controller

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"time"

	"creative-flow-be/internal/config"
	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/pkg/logger"
	"creative-flow-be/internal/pkg/serverutils"
	"creative-flow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type billingController struct {
	service service.IBillingService
	cfg     config.BillingConfig
	logger  logger.ILogger
}

func NewBillingController(service service.IBillingService, cfg config.BillingConfig, log logger.ILogger) IBillingController {
	return &billingController{
		service: service,
		cfg:     cfg,
		logger:  log,
	}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing")
	h.Post("/provider/notification", c.Webhook)
	h.Get("/plans", c.GetPlans)

	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Get("/status", serverutils.JwtMiddleware, c.GetStatus)
}

func (c *billingController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.service.GetPlans(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", res))
}

func (c *billingController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CreateCheckout(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, service.ErrFreePlanNotPurchasable):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		case errors.Is(err, service.ErrCapacityExceeded):
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409,
				"All paid seats are taken right now. Join the waitlist and we'll let you know when one opens up."))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout session created", res))
}

func (c *billingController) GetStatus(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

// Webhook receives provider lifecycle notifications. Anything that fails
// transiently returns 500 so the provider redelivers; everything the system
// has decided on (processed, duplicate, capacity-rejected) returns 200 to
// stop the retry loop.
func (c *billingController) Webhook(ctx *fiber.Ctx) error {
	var req dto.ProviderWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("webhook", "body parsing failed", map[string]interface{}{"error": err.Error()})
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	if !c.verifySignature(&req) {
		c.logger.Warn("webhook", "signature mismatch", map[string]interface{}{
			"event_id":   req.EventId,
			"event_type": req.EventType,
		})
		return ctx.SendStatus(fiber.StatusForbidden)
	}

	err := c.dispatch(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrCapacityExceeded) {
			// The rejection is recorded and the payer waitlisted; a retry
			// would change nothing.
			return ctx.SendStatus(fiber.StatusOK)
		}
		c.logger.Error("webhook", "event handling failed", map[string]interface{}{
			"event_id":   req.EventId,
			"event_type": req.EventType,
			"error":      err.Error(),
		})
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.SendStatus(fiber.StatusOK)
}

func (c *billingController) dispatch(ctx *fiber.Ctx, req *dto.ProviderWebhookRequest) error {
	switch req.EventType {
	case "checkout.completed":
		userId, err := uuid.Parse(req.Metadata["user_id"])
		if err != nil {
			c.logger.Warn("webhook", "checkout event without valid user_id metadata", map[string]interface{}{
				"event_id": req.EventId,
			})
			return nil
		}
		return c.service.HandleCheckoutCompleted(ctx.Context(), &dto.CheckoutCompletedEvent{
			EventId:        req.EventId,
			SessionId:      req.SessionId,
			CustomerId:     req.CustomerId,
			SubscriptionId: req.Subscription,
			UserId:         userId,
			PlanSlug:       req.Metadata["plan_slug"],
			Amount:         req.GrossAmount,
		})

	case "invoice.paid":
		return c.service.HandleInvoicePaid(ctx.Context(), &dto.InvoicePaidEvent{
			EventId:        req.EventId,
			SubscriptionId: req.Subscription,
			InvoiceId:      req.InvoiceId,
			Amount:         req.GrossAmount,
			PeriodStart:    unixOrZero(req.PeriodStart),
			PeriodEnd:      unixOrZero(req.PeriodEnd),
		})

	case "invoice.payment_failed":
		return c.service.HandleInvoicePaymentFailed(ctx.Context(), &dto.InvoicePaymentFailedEvent{
			EventId:        req.EventId,
			SubscriptionId: req.Subscription,
			InvoiceId:      req.InvoiceId,
			AmountDue:      req.GrossAmount,
		})

	case "subscription.updated":
		return c.service.HandleSubscriptionUpdated(ctx.Context(), &dto.SubscriptionUpdatedEvent{
			EventId:        req.EventId,
			SubscriptionId: req.Subscription,
			ProviderStatus: req.Status,
			PeriodStart:    unixOrZero(req.PeriodStart),
			PeriodEnd:      unixOrZero(req.PeriodEnd),
			CancelAtEnd:    req.CancelAtEnd,
		})

	case "subscription.deleted":
		return c.service.HandleSubscriptionDeleted(ctx.Context(), &dto.SubscriptionDeletedEvent{
			EventId:        req.EventId,
			SubscriptionId: req.Subscription,
		})

	default:
		// Unrecognized event types are acknowledged so the provider does
		// not keep redelivering them.
		c.logger.Info("webhook", "ignoring unhandled event type", map[string]interface{}{
			"event_type": req.EventType,
		})
		return nil
	}
}

// verifySignature checks the provider's digest:
// SHA512(event_id + status + gross_amount + server_key).
func (c *billingController) verifySignature(req *dto.ProviderWebhookRequest) bool {
	if c.cfg.ServerKey == "" {
		return false
	}
	input := req.EventId + req.Status + fmt.Sprintf("%.2f", req.GrossAmount) + c.cfg.ServerKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return req.SignatureKey == expected
}

func unixOrZero(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}
	return userId, nil
}
