package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API fetches a producer's posts from the catalog HTTP API.
type API struct {
	client   *http.Client
	baseURL  string
	username string
	token    string
}

// NewAPI creates a catalog API source for one producer.
func NewAPI(baseURL, username, token string) *API {
	return &API{
		client:   &http.Client{Timeout: 15 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		token:    token,
	}
}

func (a *API) Name() string { return "api" }

// Fetch retrieves all posts for the configured producer.
func (a *API) Fetch(ctx context.Context) ([]RawPost, error) {
	endpoint := fmt.Sprintf("%s/v1/api/users/posts/%s", a.baseURL, url.PathEscape(a.username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create posts request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch posts for %s: %w", a.username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("posts for %s: status %d", a.username, resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode posts for %s: %w", a.username, err)
	}

	return DecodePosts(payload), nil
}

// DecodePosts extracts post records from the shapes the backend is known to
// return: a bare array, a single post object, or a {"posts": [...]} wrapper.
// Anything else yields an empty slice rather than an error.
func DecodePosts(payload any) []RawPost {
	switch v := payload.(type) {
	case []any:
		return toRawPosts(v)
	case map[string]any:
		if _, ok := v["_id"]; ok {
			return []RawPost{RawPost(v)}
		}
		if list, ok := v["posts"].([]any); ok {
			return toRawPosts(list)
		}
	}
	return nil
}

func toRawPosts(list []any) []RawPost {
	var posts []RawPost
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			posts = append(posts, RawPost(m))
		}
	}
	return posts
}
