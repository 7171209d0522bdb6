package controller

import (
	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/pkg/serverutils"
	"creative-flow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetDashboard(ctx *fiber.Ctx) error
	ListWaitlist(ctx *fiber.Ctx) error
	NotifyBatch(ctx *fiber.Ctx) error
	ExpireStale(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService      service.IAdminService
	waitlistService   service.IWaitlistService
	notifierService   service.INotifierService
	defaultWindowDays int
}

func NewAdminController(
	adminService service.IAdminService,
	waitlistService service.IWaitlistService,
	notifierService service.INotifierService,
	defaultWindowDays int,
) IAdminController {
	return &adminController{
		adminService:      adminService,
		waitlistService:   waitlistService,
		notifierService:   notifierService,
		defaultWindowDays: defaultWindowDays,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", serverutils.AdminMiddleware)
	h.Get("/dashboard", c.GetDashboard)
	h.Get("/waitlist", c.ListWaitlist)
	h.Post("/waitlist/notify", c.NotifyBatch)
	h.Post("/waitlist/expire", c.ExpireStale)
}

func (c *adminController) GetDashboard(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetDashboard(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard", res))
}

func (c *adminController) ListWaitlist(ctx *fiber.Ctx) error {
	status := ctx.Query("status")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.waitlistService.List(ctx.Context(), status, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Waitlist entries", res))
}

func (c *adminController) NotifyBatch(ctx *fiber.Ctx) error {
	var req dto.NotifyBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	notified, err := c.notifierService.NotifyNext(ctx.Context(), req.Count)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Batch dispatched", &dto.NotifyBatchResponse{Notified: notified}))
}

func (c *adminController) ExpireStale(ctx *fiber.Ctx) error {
	var req dto.ExpireStaleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	windowDays := req.WindowDays
	if windowDays == 0 {
		windowDays = c.defaultWindowDays
	}

	expired, err := c.waitlistService.ExpireStale(ctx.Context(), windowDays)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Stale invites expired", &dto.ExpireStaleResponse{Expired: expired}))
}
