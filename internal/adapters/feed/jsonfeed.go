package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/matchboard/internal/domain/model"
)

const jsonFeedVersion = "https://jsonfeed.org/version/1"

type jsonFeed struct {
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	HomePageURL string     `json:"home_page_url"`
	FeedURL     string     `json:"feed_url"`
	Items       []jsonItem `json:"items"`
}

type jsonAuthor struct {
	Name string `json:"name"`
}

type jsonItem struct {
	ID            string        `json:"id"`
	URL           string        `json:"url"`
	Title         string        `json:"title"`
	ContentText   string        `json:"content_text"`
	ContentHTML   string        `json:"content_html,omitempty"`
	DatePublished string        `json:"date_published,omitempty"`
	DateModified  string        `json:"date_modified,omitempty"`
	Author        *jsonAuthor   `json:"author,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	Ext           jsonExtension `json:"_matchboard"`
}

// jsonExtension carries fields JSON Feed has no slot for.
type jsonExtension struct {
	Authors     string `json:"authors"`
	Institution string `json:"institution"`
	Stage       string `json:"stage"`
}

// JSON renders a JSON Feed v1 document.
func (r *Renderer) JSON(projects []model.Project) ([]byte, error) {
	f := jsonFeed{
		Version:     jsonFeedVersion,
		Title:       r.title,
		HomePageURL: r.baseURL,
		FeedURL:     r.baseURL + "feed.json",
		Items:       make([]jsonItem, 0, len(projects)),
	}
	for _, p := range projects {
		html, err := r.html(p.Abstract)
		if err != nil {
			return nil, fmt.Errorf("render abstract of %s: %w", p.ID, err)
		}
		it := jsonItem{
			ID:            p.ID,
			URL:           r.ItemURL(p),
			Title:         title(p),
			ContentText:   p.Abstract,
			ContentHTML:   html,
			DatePublished: stamp(p.CreatedAt),
			DateModified:  stamp(p.UpdatedAt),
			Tags:          p.Advantages,
			Ext: jsonExtension{
				Authors:     p.Authors,
				Institution: p.Institution,
				Stage:       p.Stage,
			},
		}
		if it.ID == "" {
			it.ID = it.URL
		}
		if p.Authors != "" {
			it.Author = &jsonAuthor{Name: p.Authors}
		}
		f.Items = append(f.Items, it)
	}
	return json.MarshalIndent(f, "", "  ")
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
