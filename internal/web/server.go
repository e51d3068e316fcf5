package web

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-novels/internal/accounts"
	"github.com/goliatone/go-novels/internal/chapters"
	"github.com/goliatone/go-novels/internal/comments"
	"github.com/goliatone/go-novels/internal/di"
	"github.com/goliatone/go-novels/internal/favorites"
	"github.com/goliatone/go-novels/internal/novels"
	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/internal/reading"
	"github.com/goliatone/go-novels/internal/search"
	"github.com/goliatone/go-novels/pkg/commands"
	"github.com/goliatone/go-novels/pkg/config"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/goliatone/go-novels/pkg/messages"
	"github.com/google/uuid"
)

// Server exposes the container's services over HTTP.
type Server struct {
	app       *fiber.App
	cfg       config.Config
	logger    logger.Logger
	localizer *messages.Localizer
	health    store.Pinger
	home      []byte

	accounts  *accounts.Service
	novels    *novels.Service
	chapters  *chapters.Service
	comments  *comments.Service
	favorites *favorites.Service
	reading   *reading.Service
	search    *search.Service
	commands  *commands.Registry
}

type route struct {
	method  string
	path    string
	auth    bool
	notes   string
	handler fiber.Handler
}

// New builds the fiber application and registers every route.
func New(c *di.Container) (*Server, error) {
	if c == nil {
		return nil, errors.New("web: container is required")
	}
	s := &Server{
		cfg:       c.Config,
		logger:    logger.With(c.Logger, map[string]any{"component": "web"}),
		localizer: c.Localizer,
		health:    c.Storage.Health,
		accounts:  c.Accounts,
		novels:    c.Novels,
		chapters:  c.Chapters,
		comments:  c.Comments,
		favorites: c.Favorites,
		reading:   c.Reading,
		search:    c.Search,
		commands:  c.Commands,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "go-novels",
		DisableStartupMessage: true,
		ReadTimeout:           s.cfg.Server.ReadTimeout,
		WriteTimeout:          s.cfg.Server.WriteTimeout,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, " + HeaderSessionID,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))
	s.app.Use(s.accessLog)
	s.app.Use(s.negotiateLocale)

	routes := s.routes()
	home, err := renderHome(routes, s.localizer.DefaultLocale())
	if err != nil {
		return nil, err
	}
	s.home = home

	for _, r := range routes {
		handlers := []fiber.Handler{r.handler}
		if r.auth {
			handlers = append([]fiber.Handler{s.requireSession}, handlers...)
		}
		s.app.Add(r.method, r.path, handlers...)
	}
	return s, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() []route {
	return []route{
		{fiber.MethodGet, "/", false, "endpoint index", s.handleHome},
		{fiber.MethodGet, "/api/health", false, "database ping", s.handleHealth},

		{fiber.MethodPost, "/api/register", false, "create an account", s.handleRegister},
		{fiber.MethodPost, "/api/login", false, "returns session_id", s.handleLogin},
		{fiber.MethodPost, "/api/logout", false, "session_id in body or header", s.handleLogout},
		{fiber.MethodGet, "/api/current_user", true, "session identity", s.handleCurrentUser},

		{fiber.MethodPost, "/api/novels", true, "create a novel", s.handleCreateNovel},
		{fiber.MethodGet, "/api/novels", false, "newest first, paginated", s.handleListNovels},
		{fiber.MethodGet, "/api/novels/:id", false, "novel details", s.handleGetNovel},

		{fiber.MethodPost, "/api/chapters", true, "author only", s.handleCreateChapter},
		{fiber.MethodGet, "/api/chapters/novel/:novel_id", false, "chapters by number", s.handleListChapters},
		{fiber.MethodGet, "/api/chapters/:id", false, "chapter with content", s.handleGetChapter},

		{fiber.MethodPost, "/api/comments", true, "comment or reply", s.handleCreateComment},
		{fiber.MethodGet, "/api/comments/novel/:novel_id", false, "threads, newest first", s.handleListComments},

		{fiber.MethodPost, "/api/favorites", true, "favorite a novel", s.handleAddFavorite},
		{fiber.MethodDelete, "/api/favorites/:novel_id", true, "remove a favorite", s.handleRemoveFavorite},
		{fiber.MethodGet, "/api/favorites/my", true, "my favorites", s.handleListFavorites},

		{fiber.MethodPost, "/api/reading/record", true, "save progress", s.handleRecordReading},
		{fiber.MethodGet, "/api/reading/continue", true, "continue reading", s.handleContinueReading},

		{fiber.MethodGet, "/api/search/novels", false, "cached keyword search", s.handleSearchNovels},
		{fiber.MethodGet, "/api/search/popular", false, "cached popular listing", s.handleSearchPopular},
		{fiber.MethodGet, "/api/search/health", false, "database and cache status", s.handleSearchHealth},

		{fiber.MethodGet, "/api/author/novels", true, "my novels with counts", s.handleAuthorNovels},
		{fiber.MethodGet, "/api/author/novels/:id/stats", true, "novel statistics", s.handleAuthorStats},
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if s.health != nil {
		if err := s.health.Ping(c.UserContext()); err != nil {
			s.logger.Error("health ping failed", "error", err)
			return s.failWith(c, fiber.StatusServiceUnavailable, s.msg(c, messages.KeyServiceUnhealthy))
		}
	}
	return s.respond(c, reply{
		message: s.msg(c, messages.KeyServiceHealthy),
		data:    fiber.Map{"database": "ok"},
	})
}

func bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("", "malformed body")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseID(name, c.Params(name))
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domain.Invalid(field, "malformed id")
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(name, "must be an integer")
	}
	return n, nil
}

func pageOf(c *fiber.Ctx, def, max int) (paging.Request, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return paging.Request{}, err
	}
	perPage, err := queryInt(c, "per_page", def)
	if err != nil {
		return paging.Request{}, err
	}
	return paging.Request{Page: page, PerPage: perPage}.Clamp(def, max), nil
}
