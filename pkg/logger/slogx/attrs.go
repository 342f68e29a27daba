package slogx

import (
	"log/slog"
	"time"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "")
	}
	return slog.String("err", err.Error())
}

func OwnerID(id string) slog.Attr {
	return slog.String("owner_id", id)
}

func NoteID(id string) slog.Attr {
	return slog.String("note_id", id)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Addr(addr string) slog.Attr {
	return slog.String("addr", addr)
}
