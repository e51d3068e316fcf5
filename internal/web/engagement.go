package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-novels/internal/comments"
	"github.com/goliatone/go-novels/pkg/commands"
	"github.com/goliatone/go-novels/pkg/messages"
)

type createCommentRequest struct {
	NovelID  string `json:"novel_id"`
	Content  string `json:"content"`
	ParentID string `json:"parent_id"`
}

type favoriteRequest struct {
	NovelID string `json:"novel_id"`
}

type readingRequest struct {
	ChapterID string `json:"chapter_id"`
	Progress  *int   `json:"progress"`
	Duration  *int   `json:"duration"`
}

func (s *Server) handleCreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	novelID, err := parseID("novel_id", req.NovelID)
	if err != nil {
		return s.fail(c, err)
	}
	in := comments.CreateInput{NovelID: novelID, Content: req.Content}
	if strings.TrimSpace(req.ParentID) != "" {
		parentID, err := parseID("parent_id", req.ParentID)
		if err != nil {
			return s.fail(c, err)
		}
		in.ParentID = &parentID
	}
	comment, err := s.comments.Create(c.UserContext(), identityOf(c).UserID, in)
	if err != nil {
		return s.fail(c, err)
	}
	return s.created(c, messages.KeyCommentCreated, fiber.Map{"comment_id": comment.ID})
}

func (s *Server) handleListComments(c *fiber.Ctx) error {
	novelID, err := paramID(c, "novel_id")
	if err != nil {
		return s.fail(c, err)
	}
	page, err := pageOf(c, s.cfg.Pagination.CommentsPerPage, s.cfg.Pagination.MaxPerPage)
	if err != nil {
		return s.fail(c, err)
	}
	threads, pagination, err := s.comments.ListByNovel(c.UserContext(), novelID, page)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{data: threads, pagination: &pagination})
}

func (s *Server) handleAddFavorite(c *fiber.Ctx) error {
	var req favoriteRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	novelID, err := parseID("novel_id", req.NovelID)
	if err != nil {
		return s.fail(c, err)
	}
	cmd := commands.AddFavorite{UserID: identityOf(c).UserID, NovelID: novelID}
	if err := s.commands.AddFavorite.Execute(c.UserContext(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.created(c, messages.KeyFavoriteAdded, fiber.Map{"novel_id": novelID})
}

func (s *Server) handleRemoveFavorite(c *fiber.Ctx) error {
	novelID, err := paramID(c, "novel_id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd := commands.RemoveFavorite{UserID: identityOf(c).UserID, NovelID: novelID}
	if err := s.commands.RemoveFavorite.Execute(c.UserContext(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{message: s.msg(c, messages.KeyFavoriteRemoved)})
}

func (s *Server) handleListFavorites(c *fiber.Ctx) error {
	page, err := pageOf(c, s.cfg.Pagination.DefaultPerPage, s.cfg.Pagination.FavoritesMaxPage)
	if err != nil {
		return s.fail(c, err)
	}
	items, pagination, err := s.favorites.ListMine(c.UserContext(), identityOf(c).UserID, page)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{data: items, pagination: &pagination})
}

func (s *Server) handleRecordReading(c *fiber.Ctx) error {
	var req readingRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	chapterID, err := parseID("chapter_id", req.ChapterID)
	if err != nil {
		return s.fail(c, err)
	}
	cmd := commands.RecordReading{
		UserID: identityOf(c).UserID,
		RecordInput: commands.RecordInput{
			ChapterID: chapterID,
			Progress:  req.Progress,
			Duration:  req.Duration,
		},
	}
	if err := s.commands.RecordReading.Execute(c.UserContext(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{message: s.msg(c, messages.KeyReadingRecorded)})
}

func (s *Server) handleContinueReading(c *fiber.Ctx) error {
	entries, err := s.reading.Continue(c.UserContext(), identityOf(c).UserID)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, entries)
}

