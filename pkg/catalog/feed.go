package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Feed fetches posts from a public RSS/Atom release feed. Feeds only carry
// titles and publication dates, so records from this source lean on the
// normalizer's defaults for every counter.
type Feed struct {
	client *http.Client
	parser *gofeed.Parser
	url    string
}

// NewFeed creates a feed-backed catalog source.
func NewFeed(feedURL string) *Feed {
	return &Feed{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		url:    feedURL,
	}
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) Fetch(ctx context.Context) ([]RawPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("User-Agent", "beatpulse/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s: status %d", f.url, resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.url, err)
	}

	var posts []RawPost
	for _, entry := range parsed.Items {
		post := RawPost{
			"_id":   entry.GUID,
			"title": entry.Title,
		}
		if entry.PublishedParsed != nil {
			post["publication_date"] = entry.PublishedParsed.UTC().Format(time.RFC3339)
		} else if entry.Published != "" {
			post["publication_date"] = entry.Published
		}
		if len(entry.Categories) > 0 {
			tags := make([]any, len(entry.Categories))
			for i, c := range entry.Categories {
				tags[i] = c
			}
			post["tags"] = tags
		}
		posts = append(posts, post)
	}
	return posts, nil
}
