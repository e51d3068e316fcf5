package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/google/uuid"
)

// CreateInput captures a comment or, with ParentID set, a reply.
type CreateInput struct {
	NovelID  uuid.UUID
	Content  string
	ParentID *uuid.UUID
}

// Dependencies wires repositories and hooks into the service.
type Dependencies struct {
	Novels   store.NovelRepository
	Comments store.CommentRepository
	Logger   logger.Logger
	Activity activity.Hooks
}

// Service posts and lists comment threads.
type Service struct {
	novels   store.NovelRepository
	comments store.CommentRepository
	logger   logger.Logger
	activity activity.Hooks
}

var errRepositoryRequired = errors.New("comments: novel and comment repositories are required")

// New constructs the comments service.
func New(deps Dependencies) (*Service, error) {
	if deps.Novels == nil || deps.Comments == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		novels:   deps.Novels,
		comments: deps.Comments,
		logger:   deps.Logger,
		activity: deps.Activity,
	}, nil
}

// Create posts a comment on an existing novel. A reply must target a comment
// on the same novel.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*domain.Comment, error) {
	if in.NovelID == uuid.Nil {
		return nil, domain.Invalid("novel_id", "required")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, domain.Invalid("content", "required")
	}
	if _, err := s.novels.GetByID(ctx, in.NovelID); err != nil {
		return nil, fmt.Errorf("comments: load novel: %w", err)
	}
	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Invalid("parent_id", "unknown comment")
		}
		if err != nil {
			return nil, fmt.Errorf("comments: load parent: %w", err)
		}
		if parent.NovelID != in.NovelID {
			return nil, domain.Invalid("parent_id", "belongs to another novel")
		}
	}

	comment := &domain.Comment{
		NovelID:  in.NovelID,
		UserID:   userID,
		Content:  content,
		ParentID: in.ParentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("comments: create: %w", err)
	}
	meta := map[string]any{"novel_id": in.NovelID.String()}
	if in.ParentID != nil {
		meta["parent_id"] = in.ParentID.String()
	}
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbCommentCreated,
		ActorID:    userID.String(),
		ObjectType: activity.ObjectComment,
		ObjectID:   comment.ID.String(),
		Metadata:   meta,
	})
	return comment, nil
}

// ListByNovel returns a page of top-level comments, newest first, each with
// its replies in posting order.
func (s *Service) ListByNovel(ctx context.Context, novelID uuid.UUID, page paging.Request) ([]domain.CommentThread, paging.Pagination, error) {
	res, err := s.comments.ListTopLevel(ctx, novelID, page.ListOptions())
	if err != nil {
		return nil, paging.Pagination{}, fmt.Errorf("comments: list: %w", err)
	}
	if len(res.Items) == 0 {
		return res.Items, page.Of(res.Total), nil
	}

	ids := make([]uuid.UUID, 0, len(res.Items))
	index := make(map[uuid.UUID]int, len(res.Items))
	for i, c := range res.Items {
		ids = append(ids, c.ID)
		index[c.ID] = i
	}
	replies, err := s.comments.ListReplies(ctx, ids)
	if err != nil {
		return nil, paging.Pagination{}, fmt.Errorf("comments: replies: %w", err)
	}
	for _, reply := range replies {
		if reply.ParentID == nil {
			continue
		}
		if i, ok := index[*reply.ParentID]; ok {
			res.Items[i].Replies = append(res.Items[i].Replies, reply)
		}
	}
	return res.Items, page.Of(res.Total), nil
}
