package sentiment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"strength-scanner/internal/logger"
	"strength-scanner/internal/types"
)

// HeadlineSource is a news listing page and the selectors for its headlines.
// URL may contain {query}, replaced with the escaped topics and tickers.
type HeadlineSource struct {
	Name          string
	URL           string
	ItemSelector  string
	TitleSelector string
	LinkSelector  string
}

// DefaultHeadlineSources returns the built-in listing pages.
func DefaultHeadlineSources() []HeadlineSource {
	return []HeadlineSource{
		{
			Name:          "GoogleNews",
			URL:           "https://news.google.com/search?q={query}&hl=en-US&gl=US&ceid=US:en",
			ItemSelector:  "article",
			TitleSelector: "h3, h4, a",
			LinkSelector:  "a",
		},
		{
			Name:          "YahooFinance",
			URL:           "https://finance.yahoo.com/topic/stock-market-news/",
			ItemSelector:  "li.stream-item, div.content",
			TitleSelector: "h3",
			LinkSelector:  "a",
		},
	}
}

// HeadlineScraper is a keyless sentiment feed. It scrapes headlines and
// labels them with a word lexicon.
type HeadlineScraper struct {
	sources []HeadlineSource
	lexicon *Lexicon
	timeout time.Duration
	delay   time.Duration
}

func NewHeadlineScraper(sources []HeadlineSource, timeout time.Duration) *HeadlineScraper {
	if len(sources) == 0 {
		sources = DefaultHeadlineSources()
	}
	return &HeadlineScraper{
		sources: sources,
		lexicon: NewLexicon(),
		timeout: timeout,
		delay:   time.Second,
	}
}

// SourcesFromURLs builds generic sources that read every h3 on the page.
func SourcesFromURLs(urls []string) []HeadlineSource {
	sources := make([]HeadlineSource, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, HeadlineSource{
			Name:          getDomain(u),
			URL:           u,
			ItemSelector:  "body",
			TitleSelector: "h3",
			LinkSelector:  "a",
		})
	}
	return sources
}

func (s *HeadlineScraper) Name() string { return "headlines" }

// Fetch scrapes every source in turn. A failing source is logged and skipped.
func (s *HeadlineScraper) Fetch(ctx context.Context, q types.SentimentQuery) ([]types.SentimentEntry, error) {
	query := url.QueryEscape(strings.Join(append(append([]string{}, q.Topics...), q.Tickers...), " "))
	if query == "" {
		query = "stock+market"
	}

	seen := make(map[string]bool)
	entries := make([]types.SentimentEntry, 0)
	var lastErr error

	for i, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		found, err := s.scrapeSource(ctx, src, strings.ReplaceAll(src.URL, "{query}", query))
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape headline source", err, "source", src.Name)
			lastErr = err
			continue
		}
		for _, e := range found {
			if seen[e.Title] {
				continue
			}
			seen[e.Title] = true
			entries = append(entries, e)
			if q.Limit > 0 && len(entries) >= q.Limit {
				return entries, nil
			}
		}
	}

	if len(entries) == 0 && lastErr != nil {
		return nil, &types.DataFetchError{Source: s.Name(), Err: lastErr}
	}
	return entries, nil
}

func (s *HeadlineScraper) scrapeSource(ctx context.Context, src HeadlineSource, target string) ([]types.SentimentEntry, error) {
	entries := make([]types.SentimentEntry, 0)

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(target)),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(src.ItemSelector, func(e *colly.HTMLElement) {
		e.DOM.Find(src.TitleSelector).Each(func(_ int, sel *goquery.Selection) {
			title := strings.Join(strings.Fields(sel.Text()), " ")
			if len(title) < 10 {
				return
			}
			link, _ := sel.Closest(src.LinkSelector).Attr("href")
			if link == "" {
				link, _ = sel.Find(src.LinkSelector).Attr("href")
			}
			score := s.lexicon.Score(title)
			entries = append(entries, types.SentimentEntry{
				Title:  title,
				URL:    e.Request.AbsoluteURL(link),
				Source: src.Name,
				Label:  Label(score),
				Score:  score,
			})
		})
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("%s returned %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", target, err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	return entries, nil
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
