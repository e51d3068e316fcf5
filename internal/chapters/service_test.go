package chapters

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-novels/internal/storage/storagetest"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/goliatone/go-novels/pkg/storage"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, storage.Providers) {
	t.Helper()
	p := storagetest.NewProviders(t)
	svc, err := New(Dependencies{Novels: p.Novels, Chapters: p.Chapters})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, p
}

func seedNovel(t *testing.T, p storage.Providers) (*domain.User, *domain.Novel) {
	t.Helper()
	ctx := context.Background()
	author := &domain.User{Username: "author", Email: "author@example.com", PasswordHash: "x", Role: domain.RoleAuthor}
	if err := p.Users.Create(ctx, author); err != nil {
		t.Fatalf("create user: %v", err)
	}
	novel := &domain.Novel{AuthorID: author.ID, Title: "Saga", Description: "d", CoverURL: "c", Status: domain.NovelStatusDraft}
	if err := p.Novels.Create(ctx, novel); err != nil {
		t.Fatalf("create novel: %v", err)
	}
	return author, novel
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "  你好世界  ", want: 4},
		{in: "hello world", want: 10},
		{in: "<p>你好</p><p>世界</p>", want: 4},
		{in: "<span>bold</span> &amp; plain", want: 10},
	}
	for _, tc := range cases {
		if got := WordCount(tc.in); got != tc.want {
			t.Fatalf("word count %q: expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestCreateAddsWordCountToNovel(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	author, novel := seedNovel(t, p)

	first, err := svc.Create(ctx, author.ID, CreateInput{NovelID: novel.ID, ChapterNum: 1, Title: "One", Content: "你好世界"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.WordCount != 4 {
		t.Fatalf("expected 4 words, got %d", first.WordCount)
	}
	if _, err := svc.Create(ctx, author.ID, CreateInput{NovelID: novel.ID, ChapterNum: 2, Title: "Two", Content: "abcdef"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	updated, err := p.Novels.GetByID(ctx, novel.ID)
	if err != nil {
		t.Fatalf("get novel: %v", err)
	}
	if updated.WordCount != 10 {
		t.Fatalf("expected novel word count 10, got %d", updated.WordCount)
	}

	list, err := svc.ListByNovel(ctx, novel.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "One" {
		t.Fatalf("unexpected list %+v", list)
	}

	got, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != "你好世界" {
		t.Fatalf("expected content, got %q", got.Content)
	}
	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRequiresOwnership(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	_, novel := seedNovel(t, p)

	_, err := svc.Create(ctx, uuid.New(), CreateInput{NovelID: novel.ID, ChapterNum: 1, Title: "x", Content: "y"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	_, err = svc.Create(ctx, uuid.New(), CreateInput{NovelID: uuid.New(), ChapterNum: 1, Title: "x", Content: "y"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for missing novel, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	cases := []CreateInput{
		{ChapterNum: 1, Title: "t", Content: "c"},
		{NovelID: uuid.New(), Title: "t", Content: "c"},
		{NovelID: uuid.New(), ChapterNum: 1, Content: "c"},
		{NovelID: uuid.New(), ChapterNum: 1, Title: "t", Content: "  "},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), uuid.New(), in); !domain.IsValidation(err) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}
