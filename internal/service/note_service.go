package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SophiaCH21/NoteBookApp/internal/dto"
	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/internal/repository"
	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/google/uuid"
)

const MaxTitleLength = 255

type INoteService interface {
	List(ctx context.Context, ownerId uuid.UUID) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) (*dto.NoteResponse, error)
	Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, id uuid.UUID, ownerId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) error
	Filter(ctx context.Context, ownerId uuid.UUID, req *dto.FilterNoteRequest) ([]*dto.NoteResponse, error)
}

type noteService struct {
	noteRepository   repository.INoteRepository
	publisherService IPublisherService
	now              func() time.Time
}

func NewNoteService(
	noteRepository repository.INoteRepository,
	publisherService IPublisherService,
) INoteService {
	return &noteService{
		noteRepository:   noteRepository,
		publisherService: publisherService,
		now:              time.Now,
	}
}

func (c *noteService) List(ctx context.Context, ownerId uuid.UUID) ([]*dto.NoteResponse, error) {
	notes, err := c.noteRepository.GetAllByOwner(ctx, ownerId)
	if err != nil {
		return nil, serverutils.Internal("list notes", err)
	}

	return dto.ToNoteResponses(notes), nil
}

func (c *noteService) Show(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) (*dto.NoteResponse, error) {
	note, err := c.getOwned(ctx, id, ownerId)
	if err != nil {
		return nil, err
	}

	return dto.ToNoteResponse(note), nil
}

func (c *noteService) Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	note := entity.Note{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Content,
		OwnerId:     ownerId,
		CreatedAt:   c.timestamp(),
	}

	stored, err := c.noteRepository.Create(ctx, &note)
	if err != nil {
		return nil, serverutils.Internal("create note", err)
	}

	c.publish(ctx, dto.NoteEventCreated, stored)

	return dto.ToNoteResponse(stored), nil
}

func (c *noteService) Update(ctx context.Context, id uuid.UUID, ownerId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	note, err := c.getOwned(ctx, id, ownerId)
	if err != nil {
		return nil, err
	}

	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	now := c.timestamp()
	if now.Before(note.CreatedAt) {
		now = note.CreatedAt
	}

	note.Title = req.Title
	note.Description = req.Content
	note.UpdatedAt = &now

	err = c.noteRepository.Update(ctx, note)
	if err != nil {
		// removed between fetch and write
		if errors.Is(err, serverutils.ErrNotFound) {
			return nil, err
		}
		return nil, serverutils.Internal("update note", err)
	}

	c.publish(ctx, dto.NoteEventUpdated, note)

	return dto.ToNoteResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) error {
	note, err := c.getOwned(ctx, id, ownerId)
	if err != nil {
		return err
	}

	err = c.noteRepository.DeleteById(ctx, note.Id)
	if err != nil {
		if errors.Is(err, serverutils.ErrNotFound) {
			return err
		}
		return serverutils.Internal("delete note", err)
	}

	c.publish(ctx, dto.NoteEventDeleted, note)

	return nil
}

// Filter applies exactly one mode: search term, then a complete date range,
// then everything the owner has.
func (c *noteService) Filter(ctx context.Context, ownerId uuid.UUID, req *dto.FilterNoteRequest) ([]*dto.NoteResponse, error) {
	var (
		notes []*entity.Note
		err   error
	)

	switch {
	case req.SearchTerm != "":
		notes, err = c.noteRepository.SearchByOwner(ctx, ownerId, req.SearchTerm)
	case req.FromDate != nil && req.ToDate != nil:
		notes, err = c.noteRepository.GetByOwnerAndDateRange(ctx, ownerId, *req.FromDate, *req.ToDate)
	default:
		notes, err = c.noteRepository.GetAllByOwner(ctx, ownerId)
	}

	if err != nil {
		return nil, serverutils.Internal("filter notes", err)
	}

	return dto.ToNoteResponses(notes), nil
}

func (c *noteService) getOwned(ctx context.Context, id uuid.UUID, ownerId uuid.UUID) (*entity.Note, error) {
	note, err := c.noteRepository.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, serverutils.ErrNotFound) {
			return nil, fmt.Errorf("note %s: %w", id, serverutils.ErrNotFound)
		}
		return nil, serverutils.Internal("get note", err)
	}

	if note.OwnerId != ownerId {
		return nil, serverutils.ErrForbidden
	}

	return note, nil
}

func (c *noteService) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Microsecond)
}

// publish runs after the mutation is committed, so a failure is only logged.
func (c *noteService) publish(ctx context.Context, eventType dto.NoteEventType, note *entity.Note) {
	if c.publisherService == nil {
		return
	}

	payload, err := json.Marshal(dto.NoteEventMessage{
		Type:       eventType,
		NoteId:     note.Id,
		OwnerId:    note.OwnerId,
		OccurredAt: c.timestamp(),
	})
	if err != nil {
		slogx.Error(ctx, "marshal note event", slogx.Err(err), slogx.NoteID(note.Id.String()))
		return
	}

	if err := c.publisherService.Publish(ctx, payload); err != nil {
		slogx.Warn(ctx, "publish note event",
			slogx.Err(err),
			slogx.NoteID(note.Id.String()),
			slogx.OwnerID(note.OwnerId.String()),
		)
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", serverutils.ErrInvalidInput)
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", serverutils.ErrInvalidInput, MaxTitleLength)
	}

	return nil
}
