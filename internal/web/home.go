package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	gotemplate "github.com/goliatone/go-template"
)

const homeTemplate = `<!doctype html>
<html lang="{{ locale }}">
<head><meta charset="utf-8"><title>{{ title }}</title></head>
<body>
<h1>{{ title }}</h1>
<p>Authenticated endpoints expect the <code>{{ header }}</code> header returned by <code>/api/login</code>.</p>
<table>
<tr><th>Method</th><th>Path</th><th>Auth</th><th>Notes</th></tr>
{% for r in routes %}<tr><td>{{ r.method }}</td><td><code>{{ r.path }}</code></td><td>{% if r.auth %}yes{% endif %}</td><td>{{ r.notes }}</td></tr>
{% endfor %}</table>
</body>
</html>
`

// renderHome renders the endpoint index once; the route table is static.
func renderHome(routes []route, locale string) ([]byte, error) {
	renderer, err := gotemplate.NewRenderer(gotemplate.WithBaseDir("."))
	if err != nil {
		return nil, fmt.Errorf("web: home renderer: %w", err)
	}
	rows := make([]map[string]any, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, map[string]any{
			"method": r.method,
			"path":   r.path,
			"auth":   r.auth,
			"notes":  r.notes,
		})
	}
	out, err := renderer.RenderString(homeTemplate, map[string]any{
		"title":  "go-novels API",
		"locale": locale,
		"header": HeaderSessionID,
		"routes": rows,
	})
	if err != nil {
		return nil, fmt.Errorf("web: render home: %w", err)
	}
	return []byte(out), nil
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(s.home)
}
