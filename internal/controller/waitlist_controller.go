package controller

import (
	"errors"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/pkg/serverutils"
	"creative-flow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWaitlistController interface {
	RegisterRoutes(r fiber.Router)
	Join(ctx *fiber.Ctx) error
	GetPosition(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	GetCapacityStats(ctx *fiber.Ctx) error
}

type waitlistController struct {
	service         service.IWaitlistService
	capacityService service.ICapacityService
}

func NewWaitlistController(waitlistService service.IWaitlistService, capacityService service.ICapacityService) IWaitlistController {
	return &waitlistController{
		service:         waitlistService,
		capacityService: capacityService,
	}
}

func (c *waitlistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/waitlist")
	h.Post("/", c.Join)
	h.Get("/position", c.GetPosition)
	h.Delete("/", c.Cancel)

	r.Get("/capacity/stats", c.GetCapacityStats)
}

func (c *waitlistController) Join(ctx *fiber.Ctx) error {
	var req dto.WaitlistJoinRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Add(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyOnWaitlist) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("You're on the waitlist", res))
}

func (c *waitlistController) GetPosition(ctx *fiber.Ctx) error {
	email := ctx.Query("email")
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	res, err := c.service.GetPosition(ctx.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrWaitlistNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Waitlist entry", res))
}

func (c *waitlistController) Cancel(ctx *fiber.Ctx) error {
	var req dto.WaitlistJoinRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	if err := c.service.Cancel(ctx.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrWaitlistNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Waitlist entry cancelled", nil))
}

func (c *waitlistController) GetCapacityStats(ctx *fiber.Ctx) error {
	res, err := c.capacityService.GetStats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Capacity stats", res))
}
