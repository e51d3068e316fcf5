package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-novels/internal/accounts"
	"github.com/goliatone/go-novels/pkg/commands"
	"github.com/goliatone/go-novels/pkg/messages"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	user, err := s.accounts.Register(c.UserContext(), accounts.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return s.created(c, messages.KeyRegistered, fiber.Map{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	res, err := s.accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{
		message: s.msg(c, messages.KeyLoggedIn),
		data: fiber.Map{
			"session_id": res.Token,
			"user":       res.User,
		},
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	var req logoutRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	token := strings.TrimSpace(req.SessionID)
	if token == "" {
		token = strings.TrimSpace(c.Get(HeaderSessionID))
	}
	if err := s.commands.Logout.Execute(c.UserContext(), commands.Logout{Token: token}); err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, reply{message: s.msg(c, messages.KeyLoggedOut)})
}

func (s *Server) handleCurrentUser(c *fiber.Ctx) error {
	return s.ok(c, identityOf(c))
}
