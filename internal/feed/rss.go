package feed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"partsnotifier/helpers"
	"partsnotifier/logger"
	"partsnotifier/pkg/errors"
	"partsnotifier/services/cache"
)

const excerptMaxRunes = 200

// FetchFunc retrieves a feed body as a UTF-8 reader
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// RSSSource polls a syndication feed over HTTP and maps its entries to
// posts. A throttling response parks the source behind a cooldown key so
// subsequent runs skip it until the cooldown expires.
type RSSSource struct {
	name      string
	kind      SourceKind
	url       string
	cacheKey  string
	blockTime time.Duration
	cacheSvc  cache.CacheService
	parser    *gofeed.Parser
	fetchFn   FetchFunc
	log       *logger.Logger
}

// NewRSSSource creates a new RSS feed source
func NewRSSSource(name string, kind SourceKind, url string, cacheSvc cache.CacheService, blockTime time.Duration) *RSSSource {
	return &RSSSource{
		name:      name,
		kind:      kind,
		url:       url,
		cacheKey:  "cooldown:" + name,
		blockTime: blockTime,
		cacheSvc:  cacheSvc,
		parser:    gofeed.NewParser(),
		fetchFn:   helpers.FetchUTF8,
		log:       logger.ForSource(name),
	}
}

// Name returns the source's name
func (s *RSSSource) Name() string {
	return s.name
}

// Kind returns which rule set applies to the source's posts
func (s *RSSSource) Kind() SourceKind {
	return s.kind
}

// Fetch retrieves and parses the feed, honoring any active cooldown
func (s *RSSSource) Fetch(ctx context.Context) ([]Post, error) {
	if s.cacheSvc != nil {
		if _, err := s.cacheSvc.Get(s.cacheKey); err == nil {
			return nil, errors.NewFeed(s.name, "source is cooling down after rate limiting", nil)
		}
	}

	body, err := s.fetchFn(ctx, s.url)
	if err != nil {
		if helpers.IsRateLimited(err) && s.cacheSvc != nil {
			s.log.Warn().Dur("block_time", s.blockTime).Msg("Rate limited, cooling down")
			if cerr := s.cacheSvc.Set(s.cacheKey, []byte(fmt.Sprintf("%d", int(s.blockTime.Seconds()))), s.blockTime); cerr != nil {
				s.log.Warn().Err(cerr).Msg("Failed to set cooldown key, source will be retried next run")
			}
		}
		return nil, errors.NewFeed(s.name, "failed to fetch feed", err)
	}

	parsed, err := s.parser.Parse(body)
	if err != nil {
		return nil, errors.NewParsing(s.name, "failed to parse feed", err)
	}

	posts := make([]Post, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		if id == "" {
			continue
		}
		posts = append(posts, Post{
			ID:      id,
			Title:   item.Title,
			Link:    item.Link,
			Excerpt: extractExcerpt(item.Content, item.Description),
			Source:  s.kind,
		})
	}
	return posts, nil
}

// extractExcerpt pulls a short plain-text snippet out of an entry's HTML
// content for use in notification bodies. Empty on any parse trouble.
func extractExcerpt(content, description string) string {
	html := content
	if html == "" {
		html = description
	}
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) > excerptMaxRunes {
		text = string(runes[:excerptMaxRunes]) + "..."
	}
	return text
}
