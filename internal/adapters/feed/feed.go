// Package feed renders the project list as JSON Feed v1 and RSS 2.0.
package feed

import (
	"bytes"
	"strings"
	"time"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/yuin/goldmark"
)

// Formats.
const (
	FormatJSON = "json"
	FormatRSS  = "rss"
)

// Content types for the two formats.
const (
	ContentTypeJSON = "application/feed+json"
	ContentTypeRSS  = "application/rss+xml"
)

const (
	defaultTitle       = "Matchboard Projects Feed"
	defaultBaseURL     = "http://localhost:8080/"
	defaultDescription = "Recent projects from the board"
	untitled           = "(untitled)"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithTitle sets the feed title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// WithBaseURL sets the home page URL items link to.
func WithBaseURL(u string) Option {
	return func(r *Renderer) {
		if u != "" {
			r.baseURL = u
		}
	}
}

// WithClock overrides the time source used for empty feeds.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// Renderer builds feed documents from projects.
type Renderer struct {
	title   string
	baseURL string
	now     func() time.Time
	md      goldmark.Markdown
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		title:   defaultTitle,
		baseURL: defaultBaseURL,
		now:     time.Now,
		md:      goldmark.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !strings.HasSuffix(r.baseURL, "/") {
		r.baseURL += "/"
	}
	return r
}

// Render dispatches on format and returns the document and its content type.
func (r *Renderer) Render(format string, projects []model.Project) ([]byte, string, error) {
	switch format {
	case FormatRSS:
		b, err := r.RSS(projects)
		return b, ContentTypeRSS, err
	case FormatJSON, "":
		b, err := r.JSON(projects)
		return b, ContentTypeJSON, err
	default:
		return nil, "", ErrUnknownFormat
	}
}

// Title returns the feed title.
func (r *Renderer) Title() string { return r.title }

// HomeURL returns the home page URL.
func (r *Renderer) HomeURL() string { return r.baseURL }

// ItemURL returns the anchor URL for a project.
func (r *Renderer) ItemURL(p model.Project) string {
	if p.ID == "" {
		return r.baseURL
	}
	return r.baseURL + "#project-" + p.ID
}

func (r *Renderer) html(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func title(p model.Project) string {
	if strings.TrimSpace(p.Title) == "" {
		return untitled
	}
	return p.Title
}

func published(p model.Project, fallback time.Time) time.Time {
	if t := p.LastModified(); !t.IsZero() {
		return t
	}
	return fallback
}
