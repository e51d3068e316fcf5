package reading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/google/uuid"
)

// DefaultContinueLimit caps the continue-reading shelf.
const DefaultContinueLimit = 5

// RecordInput reports progress on a chapter. Nil fields are left unchanged.
type RecordInput struct {
	ChapterID uuid.UUID
	Progress  *int
	Duration  *int
}

// Dependencies wires repositories and hooks into the service.
type Dependencies struct {
	Chapters      store.ChapterRepository
	Reading       store.ReadingRepository
	Logger        logger.Logger
	Activity      activity.Hooks
	ContinueLimit int
	Clock         func() time.Time
}

// Service tracks reading progress per chapter.
type Service struct {
	chapters store.ChapterRepository
	reading  store.ReadingRepository
	logger   logger.Logger
	activity activity.Hooks
	limit    int
	now      func() time.Time
}

var errRepositoryRequired = errors.New("reading: chapter and reading repositories are required")

// New constructs the reading service.
func New(deps Dependencies) (*Service, error) {
	if deps.Chapters == nil || deps.Reading == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.ContinueLimit <= 0 {
		deps.ContinueLimit = DefaultContinueLimit
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		chapters: deps.Chapters,
		reading:  deps.Reading,
		logger:   deps.Logger,
		activity: deps.Activity,
		limit:    deps.ContinueLimit,
		now:      deps.Clock,
	}, nil
}

// Record upserts the (user, chapter) record. Progress is clamped to 0..100;
// duration seconds accumulate.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, in RecordInput) (*domain.ReadingRecord, error) {
	if in.ChapterID == uuid.Nil {
		return nil, domain.Invalid("chapter_id", "required")
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, domain.Invalid("duration", "must not be negative")
	}
	chapter, err := s.chapters.GetByID(ctx, in.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("reading: load chapter: %w", err)
	}

	now := s.now().UTC()
	rec, err := s.reading.GetByUserAndChapter(ctx, userID, chapter.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		rec = &domain.ReadingRecord{
			UserID:    userID,
			ChapterID: chapter.ID,
			NovelID:   chapter.NovelID,
			Progress:  clampProgress(in.Progress, 0),
			Duration:  durationOf(in.Duration),
			LastRead:  now,
		}
		if err := s.reading.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("reading: create: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("reading: lookup: %w", err)
	default:
		rec.Progress = clampProgress(in.Progress, rec.Progress)
		rec.Duration += durationOf(in.Duration)
		rec.LastRead = now
		if err := s.reading.Update(ctx, rec); err != nil {
			return nil, fmt.Errorf("reading: update: %w", err)
		}
	}

	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbReadingRecorded,
		ActorID:    userID.String(),
		ObjectType: activity.ObjectReading,
		ObjectID:   rec.ID.String(),
		Metadata: map[string]any{
			"chapter_id": chapter.ID.String(),
			"novel_id":   chapter.NovelID.String(),
			"progress":   rec.Progress,
		},
		OccurredAt: now,
	})
	return rec, nil
}

// Continue returns the latest position in each novel the user has read.
func (s *Service) Continue(ctx context.Context, userID uuid.UUID) ([]domain.ContinueEntry, error) {
	entries, err := s.reading.ContinueForUser(ctx, userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("reading: continue: %w", err)
	}
	return entries, nil
}

func clampProgress(p *int, prev int) int {
	if p == nil {
		return prev
	}
	switch {
	case *p < 0:
		return 0
	case *p > 100:
		return 100
	}
	return *p
}

func durationOf(d *int) int {
	if d == nil {
		return 0
	}
	return *d
}
