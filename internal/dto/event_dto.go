package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteEventType string

const (
	NoteEventCreated NoteEventType = "created"
	NoteEventUpdated NoteEventType = "updated"
	NoteEventDeleted NoteEventType = "deleted"
)

type NoteEventMessage struct {
	Type       NoteEventType `json:"type"`
	NoteId     uuid.UUID     `json:"noteId"`
	OwnerId    uuid.UUID     `json:"ownerId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

func (t NoteEventType) Valid() bool {
	switch t {
	case NoteEventCreated, NoteEventUpdated, NoteEventDeleted:
		return true
	}
	return false
}
