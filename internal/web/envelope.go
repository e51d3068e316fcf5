package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/goliatone/go-novels/pkg/messages"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Status     string             `json:"status"`
	Code       int                `json:"code"`
	Message    string             `json:"message,omitempty"`
	Data       any                `json:"data,omitempty"`
	Pagination *paging.Pagination `json:"pagination,omitempty"`
	Total      *int               `json:"total,omitempty"`
	SearchInfo any                `json:"search_info,omitempty"`
}

type reply struct {
	code       int
	message    string
	data       any
	pagination *paging.Pagination
	total      *int
	searchInfo any
}

func (s *Server) respond(c *fiber.Ctx, r reply) error {
	if r.code == 0 {
		r.code = fiber.StatusOK
	}
	return c.Status(r.code).JSON(envelope{
		Status:     statusSuccess,
		Code:       r.code,
		Message:    r.message,
		Data:       r.data,
		Pagination: r.pagination,
		Total:      r.total,
		SearchInfo: r.searchInfo,
	})
}

func (s *Server) ok(c *fiber.Ctx, data any) error {
	return s.respond(c, reply{data: data})
}

func (s *Server) created(c *fiber.Ctx, key string, data any) error {
	return s.respond(c, reply{code: fiber.StatusCreated, message: s.msg(c, key), data: data})
}

func (s *Server) failWith(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(envelope{Status: statusError, Code: code, Message: message})
}

// fail maps service errors onto HTTP status codes. Unexpected errors are
// logged and reported as a generic 500.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Field == "" {
			return s.failWith(c, fiber.StatusBadRequest, s.msg(c, messages.KeyInvalidInput))
		}
		return s.failWith(c, fiber.StatusBadRequest, s.msg(c, messages.KeyInvalidField, verr.Field, verr.Reason))
	case errors.Is(err, domain.ErrConflict):
		return s.failWith(c, fiber.StatusBadRequest, s.msg(c, messages.KeyConflict))
	case errors.Is(err, domain.ErrUnauthorized):
		return s.failWith(c, fiber.StatusUnauthorized, s.msg(c, messages.KeyUnauthorized))
	case errors.Is(err, domain.ErrForbidden):
		return s.failWith(c, fiber.StatusForbidden, s.msg(c, messages.KeyForbidden))
	case errors.Is(err, store.ErrNotFound):
		return s.failWith(c, fiber.StatusNotFound, s.msg(c, messages.KeyNotFound))
	}
	s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return s.failWith(c, fiber.StatusInternalServerError, s.msg(c, messages.KeyInternal))
}

// errorHandler renders errors that escape handlers, including fiber's own
// routing errors.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		switch ferr.Code {
		case fiber.StatusNotFound:
			return s.failWith(c, ferr.Code, s.msg(c, messages.KeyNotFound))
		case fiber.StatusInternalServerError:
			return s.fail(c, err)
		}
		return s.failWith(c, ferr.Code, ferr.Message)
	}
	return s.fail(c, err)
}

func (s *Server) msg(c *fiber.Ctx, key string, args ...any) string {
	return s.localizer.Message(localeOf(c), key, args...)
}
