package reading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-novels/internal/storage/storagetest"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/goliatone/go-novels/pkg/storage"
	"github.com/google/uuid"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	svc      *Service
	p        storage.Providers
	clock    *clock
	user     *domain.User
	chapters []*domain.Chapter
}

func newFixture(t *testing.T, novels int) fixture {
	t.Helper()
	ctx := context.Background()
	p := storagetest.NewProviders(t)
	clk := &clock{t: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	svc, err := New(Dependencies{Chapters: p.Chapters, Reading: p.Reading, Clock: clk.now})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	user := &domain.User{Username: "reader", Email: "r@example.com", PasswordHash: "x", Role: domain.RoleReader}
	if err := p.Users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	var chapters []*domain.Chapter
	for i := 0; i < novels; i++ {
		novel := &domain.Novel{AuthorID: user.ID, Title: "N", Description: "d", CoverURL: "c", Status: domain.NovelStatusPublished}
		if err := p.Novels.Create(ctx, novel); err != nil {
			t.Fatalf("create novel: %v", err)
		}
		for num := 1; num <= 2; num++ {
			ch := &domain.Chapter{NovelID: novel.ID, ChapterNum: num, Title: "c", Content: "text", WordCount: 4}
			if err := p.Chapters.CreateForNovel(ctx, ch); err != nil {
				t.Fatalf("create chapter: %v", err)
			}
			chapters = append(chapters, ch)
		}
	}
	return fixture{svc: svc, p: p, clock: clk, user: user, chapters: chapters}
}

func intp(v int) *int { return &v }

func TestRecordUpsertsAndAccumulates(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	ch := f.chapters[0]

	first, err := f.svc.Record(ctx, f.user.ID, RecordInput{ChapterID: ch.ID, Progress: intp(40), Duration: intp(60)})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.Progress != 40 || first.Duration != 60 || first.NovelID != ch.NovelID {
		t.Fatalf("unexpected record %+v", first)
	}

	f.clock.advance(time.Minute)
	second, err := f.svc.Record(ctx, f.user.ID, RecordInput{ChapterID: ch.ID, Duration: intp(30)})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same record to be updated")
	}
	if second.Progress != 40 {
		t.Fatalf("expected progress to be kept, got %d", second.Progress)
	}
	if second.Duration != 90 {
		t.Fatalf("expected accumulated duration 90, got %d", second.Duration)
	}
	if !second.LastRead.Equal(f.clock.t) {
		t.Fatalf("expected last_read to advance")
	}

	third, err := f.svc.Record(ctx, f.user.ID, RecordInput{ChapterID: ch.ID, Progress: intp(250)})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if third.Progress != 100 {
		t.Fatalf("expected clamp to 100, got %d", third.Progress)
	}
	stored, err := f.p.Reading.GetByUserAndChapter(ctx, f.user.ID, ch.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Progress != 100 || stored.Duration != 90 {
		t.Fatalf("unexpected stored record %+v", stored)
	}
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.svc.Record(ctx, f.user.ID, RecordInput{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.Record(ctx, f.user.ID, RecordInput{ChapterID: f.chapters[0].ID, Duration: intp(-1)}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative duration, got %v", err)
	}
	if _, err := f.svc.Record(ctx, f.user.ID, RecordInput{ChapterID: uuid.New()}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClampProgress(t *testing.T) {
	if got := clampProgress(intp(-5), 30); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := clampProgress(nil, 30); got != 30 {
		t.Fatalf("expected previous value, got %d", got)
	}
}

func TestContinueLatestPerNovel(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	// Read both chapters of every novel; the second chapter is read last.
	for _, ch := range f.chapters {
		f.clock.advance(time.Minute)
		if _, err := f.svc.Record(ctx, f.user.ID, RecordInput{ChapterID: ch.ID, Progress: intp(ch.ChapterNum * 10)}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := f.svc.Continue(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if len(entries) != DefaultContinueLimit {
		t.Fatalf("expected %d entries, got %d", DefaultContinueLimit, len(entries))
	}
	last := f.chapters[len(f.chapters)-1]
	if entries[0].ChapterID != last.ID || entries[0].NovelID != last.NovelID {
		t.Fatalf("expected most recent novel first, got %+v", entries[0])
	}
	seen := map[uuid.UUID]bool{}
	for _, e := range entries {
		if e.ChapterNum != 2 || e.Progress != 20 {
			t.Fatalf("expected latest chapter per novel, got %+v", e)
		}
		if seen[e.NovelID] {
			t.Fatalf("novel %s listed twice", e.NovelID)
		}
		seen[e.NovelID] = true
	}
}
