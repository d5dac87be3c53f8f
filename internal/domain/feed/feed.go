// Package feed renders the public RSS feed and the sitemap.
package feed

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"newznepal/internal/domain/post"
)

const (
	RSSLimit     = 50
	SitemapLimit = 1000

	channelTitle       = "NewzNepal - Latest Nepal News"
	channelDescription = "Latest news updates from Nepal"
)

// PostSource lists the newest posts by created_at or updated_at.
type PostSource interface {
	Latest(ctx context.Context, orderBy string, limit int) ([]post.Post, error)
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssItem struct {
	Title       cdata  `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Category    string `xml:"category,omitempty"`
	Description cdata  `xml:"description"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type Service struct {
	posts   PostSource
	siteURL string
	now     func() time.Time
}

func NewService(posts PostSource, siteURL string) *Service {
	return &Service{
		posts:   posts,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) postURL(id string) string {
	return s.siteURL + "/posts/" + id
}

// RSS returns an RSS 2.0 document with the latest posts.
func (s *Service) RSS(ctx context.Context) ([]byte, error) {
	posts, err := s.posts.Latest(ctx, "created_at", RSSLimit)
	if err != nil {
		return nil, err
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, rssItem{
			Title:       cdata{p.Title},
			Link:        s.postURL(p.ID),
			GUID:        s.postURL(p.ID),
			PubDate:     p.CreatedAt.UTC().Format(time.RFC1123Z),
			Category:    p.Category.LabelEn(),
			Description: cdata{p.Summary},
		})
	}

	return encode(rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         channelTitle,
			Link:          s.siteURL,
			Description:   channelDescription,
			Language:      "en",
			LastBuildDate: s.now().Format(time.RFC1123Z),
			Items:         items,
		},
	})
}

// Sitemap lists the home page and the most recently updated posts.
func (s *Service) Sitemap(ctx context.Context) ([]byte, error) {
	posts, err := s.posts.Latest(ctx, "updated_at", SitemapLimit)
	if err != nil {
		return nil, err
	}

	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{{
			Loc:        s.siteURL + "/",
			LastMod:    s.now().Format(time.RFC3339),
			ChangeFreq: "hourly",
			Priority:   "1.0",
		}},
	}
	for _, p := range posts {
		mod := p.UpdatedAt
		if mod.IsZero() {
			mod = p.CreatedAt
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        s.postURL(p.ID),
			LastMod:    mod.UTC().Format(time.RFC3339),
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}
	return encode(set)
}

func encode(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
