package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-novels/internal/search"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/messages"
)

func (s *Server) handleSearchNovels(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return s.fail(c, err)
	}
	perPage, err := queryInt(c, "per_page", search.DefaultPerPage)
	if err != nil {
		return s.fail(c, err)
	}
	var status *string
	if c.Context().QueryArgs().Has("status") {
		status = search.StatusParam(c.Query("status"))
	}
	res, err := s.search.Novels(c.UserContext(), search.Query{
		Keyword: c.Query("keyword"),
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.Field == "keyword" {
		return s.failWith(c, fiber.StatusBadRequest, s.msg(c, messages.KeyKeywordRequired))
	}
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{
		data:       res.Novels,
		pagination: &res.Pagination,
		searchInfo: res.SearchInfo,
	})
}

func (s *Server) handleSearchPopular(c *fiber.Ctx) error {
	rows, err := s.search.Popular(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{
		message: s.msg(c, messages.KeyPopularFound, len(rows)),
		data:    rows,
	})
}

func (s *Server) handleSearchHealth(c *fiber.Ctx) error {
	h, err := s.search.Health(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(envelope{
			Status:  statusError,
			Code:    fiber.StatusServiceUnavailable,
			Message: s.msg(c, messages.KeyServiceUnhealthy),
			Data:    h,
		})
	}
	return s.respond(c, reply{message: s.msg(c, messages.KeyServiceHealthy), data: h})
}
