package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-novels/internal/chapters"
	"github.com/goliatone/go-novels/internal/novels"
	"github.com/goliatone/go-novels/pkg/messages"
)

type createNovelRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
	Status      string `json:"status"`
}

type createChapterRequest struct {
	NovelID    string `json:"novel_id"`
	ChapterNum int    `json:"chapter_num"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

func (s *Server) handleCreateNovel(c *fiber.Ctx) error {
	var req createNovelRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	novel, err := s.novels.Create(c.UserContext(), identityOf(c).UserID, novels.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Status:      req.Status,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return s.created(c, messages.KeyNovelCreated, fiber.Map{"novel_id": novel.ID})
}

func (s *Server) handleListNovels(c *fiber.Ctx) error {
	page, err := pageOf(c, s.cfg.Pagination.DefaultPerPage, s.cfg.Pagination.MaxPerPage)
	if err != nil {
		return s.fail(c, err)
	}
	items, pagination, err := s.novels.List(c.UserContext(), page)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{data: items, pagination: &pagination})
}

func (s *Server) handleGetNovel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	novel, err := s.novels.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, novel)
}

func (s *Server) handleCreateChapter(c *fiber.Ctx) error {
	var req createChapterRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	novelID, err := parseID("novel_id", req.NovelID)
	if err != nil {
		return s.fail(c, err)
	}
	chapter, err := s.chapters.Create(c.UserContext(), identityOf(c).UserID, chapters.CreateInput{
		NovelID:    novelID,
		ChapterNum: req.ChapterNum,
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return s.created(c, messages.KeyChapterCreated, fiber.Map{
		"chapter_id": chapter.ID,
		"word_count": chapter.WordCount,
	})
}

func (s *Server) handleListChapters(c *fiber.Ctx) error {
	novelID, err := paramID(c, "novel_id")
	if err != nil {
		return s.fail(c, err)
	}
	items, err := s.chapters.ListByNovel(c.UserContext(), novelID)
	if err != nil {
		return s.fail(c, err)
	}
	total := len(items)
	return s.respond(c, reply{data: items, total: &total})
}

func (s *Server) handleGetChapter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	chapter, err := s.chapters.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, chapter)
}

func (s *Server) handleAuthorNovels(c *fiber.Ctx) error {
	page, err := pageOf(c, s.cfg.Pagination.DefaultPerPage, s.cfg.Pagination.MaxPerPage)
	if err != nil {
		return s.fail(c, err)
	}
	items, pagination, err := s.novels.ListByAuthor(c.UserContext(), identityOf(c).UserID, c.Query("status"), page)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{data: items, pagination: &pagination})
}

func (s *Server) handleAuthorStats(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	stats, err := s.novels.Stats(c.UserContext(), identityOf(c).UserID, id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, stats)
}
