package usersink

import (
	"context"
	"time"

	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events into go-users ActivitySink records.
type Hook struct {
	Sink   types.ActivitySink
	Logger logger.Logger
}

// Notify maps the activity event into a types.ActivityRecord and forwards it.
// The acting user is both the actor and the subject of the record.
func (h Hook) Notify(ctx context.Context, evt activity.Event) {
	if h.Sink == nil {
		return
	}
	actor := parseUUID(evt.ActorID)
	record := types.ActivityRecord{
		ID:         uuid.New(),
		UserID:     actor,
		ActorID:    actor,
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       activity.CloneMetadata(evt.Metadata),
		OccurredAt: evt.OccurredAt,
	}
	if record.Data == nil {
		record.Data = make(map[string]any)
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}
	if err := h.Sink.Log(ctx, record); err != nil && h.Logger != nil {
		h.Logger.Warn("activity sink failed", "verb", evt.Verb, "error", err)
	}
}

func parseUUID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
