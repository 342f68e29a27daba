package controller

import (
	"fmt"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/dto"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Filter(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	service     service.INoteService
	requireAuth fiber.Handler
}

func NewNoteController(service service.INoteService, requireAuth fiber.Handler) INoteController {
	return &noteController{
		service:     service,
		requireAuth: requireAuth,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes", c.requireAuth)
	h.Get("/", c.List)
	h.Get("/filter", c.Filter)
	h.Get("/:id", c.Show)
	h.Post("/", c.Create)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Filter(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	req := dto.FilterNoteRequest{
		SearchTerm: ctx.Query("searchTerm"),
	}

	if req.FromDate, err = parseDateQuery(ctx, "fromDate"); err != nil {
		return err
	}
	if req.ToDate, err = parseDateQuery(ctx, "toDate"); err != nil {
		return err
	}

	res, err := c.service.Filter(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	id, err := parseNoteId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id, ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed request body", serverutils.ErrInvalidInput)
	}

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return err
	}

	ctx.Location("/notes/" + res.Id.String())
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	id, err := parseNoteId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed request body", serverutils.ErrInvalidInput)
	}

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	id, err := parseNoteId(ctx)
	if err != nil {
		return err
	}

	err = c.service.Delete(ctx.UserContext(), id, ownerId)
	if err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// an id that does not parse cannot name any note
func parseNoteId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.ErrNotFound
	}
	return id, nil
}

// parseDateQuery accepts RFC 3339 timestamps or plain dates (midnight UTC).
// An absent parameter yields nil.
func parseDateQuery(ctx *fiber.Ctx, key string) (*time.Time, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%w: %s must be an RFC 3339 timestamp or YYYY-MM-DD date", serverutils.ErrInvalidInput, key)
}
