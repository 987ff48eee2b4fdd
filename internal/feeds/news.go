package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/bobmcallan/agripulse/internal/models"
)

// News providers.
const (
	NewsProviderNewsAPI = "newsapi"
	NewsProviderRSS     = "rss"
)

// DefaultNewsQuery is the search used against NewsAPI.
const DefaultNewsQuery = "coffee OR Burundi OR agriculture"

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// NewsConfig selects and parameterizes the headline source.
type NewsConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Query    string
	PageSize int
	RSSURLs  []string
}

// NewsFetcher reads recent headlines from NewsAPI or a set of RSS feeds and
// scores each with AnalyzeSentiment.
type NewsFetcher struct {
	base
	cfg    NewsConfig
	parser *gofeed.Parser
}

// NewNewsFetcher creates a headline fetcher.
func NewNewsFetcher(cfg NewsConfig, opts ...Option) *NewsFetcher {
	if cfg.Provider == "" {
		cfg.Provider = NewsProviderNewsAPI
	}
	if cfg.Query == "" {
		cfg.Query = DefaultNewsQuery
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}

	f := &NewsFetcher{
		base:   newBase(models.FeedNews, opts),
		cfg:    cfg,
		parser: gofeed.NewParser(),
	}
	f.parser.Client = f.client
	return f
}

// Fetch returns the current headline set.
func (f *NewsFetcher) Fetch(ctx context.Context) (models.FeedData, error) {
	return f.run(ctx, f.fetchLive, func() models.FeedData { return MockNews(f.now()) })
}

func (f *NewsFetcher) fetchLive(ctx context.Context) (models.FeedData, error) {
	switch f.cfg.Provider {
	case NewsProviderRSS:
		return f.fetchRSS(ctx)
	case NewsProviderNewsAPI:
		return f.fetchNewsAPI(ctx)
	default:
		return nil, fmt.Errorf("unsupported news provider %q", f.cfg.Provider)
	}
}

func (f *NewsFetcher) fetchNewsAPI(ctx context.Context) (models.FeedData, error) {
	if f.cfg.APIKey == "" {
		return nil, errNoAPIKey
	}

	q := url.Values{}
	q.Set("q", f.cfg.Query)
	q.Set("apiKey", f.cfg.APIKey)
	q.Set("pageSize", strconv.Itoa(f.cfg.PageSize))

	var resp newsAPIResponse
	if err := f.getJSON(ctx, f.cfg.BaseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("newsapi error: %s", resp.Message)
	}
	if len(resp.Articles) == 0 {
		return nil, errors.New("response has no articles")
	}

	now := f.now()
	articles := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: parseTimestamp(a.PublishedAt, now),
			Sentiment:   AnalyzeSentiment(a.Title + " " + a.Description),
		})
	}
	return &models.NewsData{Articles: articles, Source: models.SourceLive}, nil
}

// fetchRSS reads the configured feeds in order until PageSize items are
// collected. A feed that fails is skipped; all feeds failing is an error.
func (f *NewsFetcher) fetchRSS(ctx context.Context) (models.FeedData, error) {
	if len(f.cfg.RSSURLs) == 0 {
		return nil, errors.New("no rss feeds configured")
	}

	now := f.now()
	var (
		articles []models.NewsArticle
		errs     []error
	)
	for _, feedURL := range f.cfg.RSSURLs {
		if len(articles) >= f.cfg.PageSize {
			break
		}
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("fetching %s: %w", feedURL, err))
			continue
		}
		for _, item := range feed.Items {
			if len(articles) >= f.cfg.PageSize {
				break
			}
			articles = append(articles, rssArticle(item, feed.Title, now))
		}
	}

	if len(articles) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return nil, errors.New("rss feeds returned no items")
	}
	return &models.NewsData{Articles: articles, Source: models.SourceLive}, nil
}

func rssArticle(item *gofeed.Item, feedTitle string, now time.Time) models.NewsArticle {
	pub := now
	if item.PublishedParsed != nil {
		pub = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		pub = *item.UpdatedParsed
	}

	desc := item.Description
	if desc == "" {
		desc = item.Content
	}
	desc = truncate(stripHTML(desc), 300)

	return models.NewsArticle{
		Title:       item.Title,
		Description: desc,
		Source:      feedTitle,
		URL:         item.Link,
		PublishedAt: pub,
		Sentiment:   AnalyzeSentiment(item.Title + " " + desc),
	}
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
