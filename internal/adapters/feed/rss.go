package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/okian/matchboard/internal/domain/model"
)

type cdata struct {
	Text string `xml:",cdata"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	Title       cdata   `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	Description cdata   `xml:"description"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
}

// RSS renders an RSS 2.0 document. lastBuildDate is the first project's
// modification time, or now for an empty list.
func (r *Renderer) RSS(projects []model.Project) ([]byte, error) {
	now := r.now()
	built := now
	if len(projects) > 0 {
		built = published(projects[0], now)
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         r.title,
			Link:          r.baseURL,
			Description:   defaultDescription,
			LastBuildDate: built.UTC().Format(time.RFC1123Z),
			Items:         make([]rssItem, 0, len(projects)),
		},
	}
	for _, p := range projects {
		desc := p.Abstract
		if p.Authors != "" {
			desc = p.Authors + " — " + p.Abstract
		}
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       cdata{title(p)},
			Link:        r.ItemURL(p),
			GUID:        rssGUID{Value: p.ID},
			Description: cdata{desc},
			Category:    strings.Join(p.Advantages, ", "),
			PubDate:     published(p, now).UTC().Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
