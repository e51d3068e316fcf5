package activity

import (
	"context"
	"time"

	"github.com/goliatone/go-novels/pkg/interfaces/logger"
)

// Verbs emitted by the services.
const (
	VerbUserRegistered  = "user.registered"
	VerbUserLoggedIn    = "user.logged_in"
	VerbUserLoggedOut   = "user.logged_out"
	VerbNovelCreated    = "novel.created"
	VerbChapterCreated  = "chapter.created"
	VerbCommentCreated  = "comment.created"
	VerbFavoriteAdded   = "favorite.added"
	VerbFavoriteRemoved = "favorite.removed"
	VerbReadingRecorded = "reading.recorded"
)

// Object types referenced by events.
const (
	ObjectUser     = "user"
	ObjectNovel    = "novel"
	ObjectChapter  = "chapter"
	ObjectComment  = "comment"
	ObjectFavorite = "favorite"
	ObjectReading  = "reading_record"
)

// ChannelAPI tags events raised from HTTP requests.
const ChannelAPI = "api"

// Event captures who did what to which object.
type Event struct {
	Verb       string
	ActorID    string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook observers receive activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event)
}

// Hooks provides a convenient fan-out collection.
type Hooks []Hook

// Notify delivers the event to every hook, skipping nil entries.
func (h Hooks) Notify(ctx context.Context, evt Event) {
	if len(h) == 0 {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if evt.Channel == "" {
		evt.Channel = ChannelAPI
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(ctx, evt)
	}
}

// Nop is a no-op hook useful for defaults.
type Nop struct{}

func (Nop) Notify(_ context.Context, _ Event) {}

// LogHook writes every event to a logger at info level.
type LogHook struct {
	Logger logger.Logger
}

func (h LogHook) Notify(ctx context.Context, evt Event) {
	if h.Logger == nil {
		return
	}
	args := []any{
		"verb", evt.Verb,
		"actor_id", evt.ActorID,
		"object_type", evt.ObjectType,
		"object_id", evt.ObjectID,
	}
	for _, k := range sortedKeys(evt.Metadata) {
		args = append(args, k, evt.Metadata[k])
	}
	h.Logger.WithContext(ctx).Info("activity", args...)
}

// CloneMetadata makes a shallow copy so hooks can mutate without affecting callers.
func CloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
