package dto

import (
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// FilterNoteRequest holds already-parsed query parameters. Zero values mean
// the parameter was absent.
type FilterNoteRequest struct {
	SearchTerm string
	FromDate   *time.Time
	ToDate     *time.Time
}

type NoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	OwnerId   uuid.UUID  `json:"ownerId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// ToNoteResponse maps the stored note to its transport shape:
//
//	Id          -> id
//	Title       -> title
//	Description -> content
//	OwnerId     -> ownerId
//	CreatedAt   -> createdAt
//	UpdatedAt   -> updatedAt (null when never updated)
func ToNoteResponse(n *entity.Note) *NoteResponse {
	return &NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Description,
		OwnerId:   n.OwnerId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func ToNoteResponses(notes []*entity.Note) []*NoteResponse {
	res := make([]*NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, ToNoteResponse(n))
	}
	return res
}
