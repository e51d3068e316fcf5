package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/internal/storage/storagetest"
	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/goliatone/go-novels/pkg/storage"
	"github.com/google/uuid"
)

type recordingHook struct {
	events []activity.Event
}

func (h *recordingHook) Notify(_ context.Context, evt activity.Event) {
	h.events = append(h.events, evt)
}

type fixture struct {
	svc    *Service
	p      storage.Providers
	hook   *recordingHook
	reader *domain.User
	novel  *domain.Novel
	other  *domain.Novel
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	p := storagetest.NewProviders(t)
	hook := &recordingHook{}
	svc, err := New(Dependencies{Novels: p.Novels, Comments: p.Comments, Activity: activity.Hooks{hook}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	reader := &domain.User{Username: "reader", Email: "reader@example.com", PasswordHash: "x", Role: domain.RoleReader}
	if err := p.Users.Create(ctx, reader); err != nil {
		t.Fatalf("create user: %v", err)
	}
	novel := &domain.Novel{AuthorID: reader.ID, Title: "A", Description: "d", CoverURL: "c", Status: domain.NovelStatusPublished}
	other := &domain.Novel{AuthorID: reader.ID, Title: "B", Description: "d", CoverURL: "c", Status: domain.NovelStatusPublished}
	for _, n := range []*domain.Novel{novel, other} {
		if err := p.Novels.Create(ctx, n); err != nil {
			t.Fatalf("create novel: %v", err)
		}
	}
	return fixture{svc: svc, p: p, hook: hook, reader: reader, novel: novel, other: other}
}

func TestCreateAndListThreads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.novel.ID, Content: "first"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.novel.ID, Content: "second"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, body := range []string{"reply one", "reply two"} {
		time.Sleep(5 * time.Millisecond)
		if _, err := f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.novel.ID, Content: body, ParentID: &first.ID}); err != nil {
			t.Fatalf("reply: %v", err)
		}
	}

	threads, page, err := f.svc.ListByNovel(ctx, f.novel.ID, paging.Request{Page: 1, PerPage: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(threads) != 2 {
		t.Fatalf("expected two top-level comments, got %d (total %d)", len(threads), page.Total)
	}
	if threads[0].ID != second.ID {
		t.Fatalf("expected newest first")
	}
	if threads[1].Username != "reader" {
		t.Fatalf("expected username, got %q", threads[1].Username)
	}
	replies := threads[1].Replies
	if len(replies) != 2 || replies[0].Content != "reply one" || replies[1].Content != "reply two" {
		t.Fatalf("unexpected replies %+v", replies)
	}
	if len(f.hook.events) != 4 || f.hook.events[0].Verb != activity.VerbCommentCreated {
		t.Fatalf("expected comment events, got %+v", f.hook.events)
	}
}

func TestCreateRejectsForeignParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root, err := f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.other.ID, Content: "elsewhere"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.novel.ID, Content: "reply", ParentID: &root.ID})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	missing := uuid.New()
	_, err = f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.novel.ID, Content: "reply", ParentID: &missing})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown parent, got %v", err)
	}
}

func TestCreateRequiresNovelAndContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: uuid.New(), Content: "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.reader.ID, CreateInput{NovelID: f.novel.ID, Content: "  "}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
