// Package notion talks to the Notion REST API with a per-user OAuth
// token. No SDK — the surface we need is four endpoints, and a plain
// net/http client keeps the dependency out of the tree.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"

	// Pinned API revision. Notion versions by date header.
	apiVersion = "2022-06-28"

	searchPageSize = 20
	recentPageSize = 10
)

// API is the slice of Notion the handlers consume. An interface so
// tests can substitute a fake without an HTTP server.
type API interface {
	RecentPages(ctx context.Context) ([]Document, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	CreatePage(ctx context.Context, params CreatePageParams) (*Page, error)
	UpdatePage(ctx context.Context, pageID string, properties map[string]any) error
}

// ClientFactory builds an API bound to one access token. Handlers call
// it per request because every user carries their own token.
type ClientFactory func(accessToken string) API

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   accessToken,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL exists for tests pointing at an httptest server.
func NewClientWithBaseURL(accessToken, baseURL string) *Client {
	c := NewClient(accessToken)
	c.baseURL = baseURL
	return c
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call notion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notion %s %s: status %d: %s", method, path, resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Wire shapes. Notion's page objects are deeply polymorphic; we decode
// only the slices we read and let the rest fall on the floor.

type richText struct {
	PlainText string `json:"plain_text"`
	Text      struct {
		Content string `json:"content"`
	} `json:"text"`
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type pageObject struct {
	ID             string `json:"id"`
	Object         string `json:"object"`
	URL            string `json:"url"`
	LastEditedTime string `json:"last_edited_time"`
	Icon           *struct {
		Emoji    string `json:"emoji"`
		External *struct {
			URL string `json:"url"`
		} `json:"external"`
	} `json:"icon"`
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties map[string]titleProperty `json:"properties"`
}

type searchResponse struct {
	Results []pageObject `json:"results"`
}

// title pulls a display title out of a page object. Notion stores the
// title under "title" for plain pages and under "Name" for database
// rows; anything else renders as Untitled.
func (p pageObject) title() string {
	for _, key := range []string{"title", "Name"} {
		prop, ok := p.Properties[key]
		if !ok {
			continue
		}
		for _, rt := range prop.Title {
			if rt.Text.Content != "" {
				return rt.Text.Content
			}
			if rt.PlainText != "" {
				return rt.PlainText
			}
		}
	}
	return "Untitled"
}

func (p pageObject) icon() string {
	if p.Icon == nil {
		return ""
	}
	if p.Icon.Emoji != "" {
		return p.Icon.Emoji
	}
	if p.Icon.External != nil {
		return p.Icon.External.URL
	}
	return ""
}

// RecentPages returns the ten most recently edited pages in the
// workspace, newest first.
func (c *Client) RecentPages(ctx context.Context) ([]Document, error) {
	payload := map[string]any{
		"filter": map[string]string{"property": "object", "value": "page"},
		"sort": map[string]string{
			"direction": "descending",
			"timestamp": "last_edited_time",
		},
		"page_size": recentPageSize,
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/search", payload, &resp); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(resp.Results))
	for _, page := range resp.Results {
		docs = append(docs, Document{
			ID:             page.ID,
			Title:          page.title(),
			Icon:           page.icon(),
			LastEditedTime: page.LastEditedTime,
			URL:            page.URL,
		})
	}
	return docs, nil
}

// Search runs a workspace search restricted to pages.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	payload := map[string]any{
		"query":     query,
		"filter":    map[string]string{"property": "object", "value": "page"},
		"page_size": searchPageSize,
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/search", payload, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, page := range resp.Results {
		kind := "page"
		if page.Object == "database" {
			kind = "database"
		}
		parent := ""
		if page.Parent.DatabaseID != "" {
			parent = "In a database"
		}
		results = append(results, SearchResult{
			ID:     page.ID,
			Title:  page.title(),
			Type:   kind,
			Icon:   page.icon(),
			URL:    page.URL,
			Parent: parent,
		})
	}
	return results, nil
}

// CreatePage creates a page with a title and optional paragraph body.
func (c *Client) CreatePage(ctx context.Context, params CreatePageParams) (*Page, error) {
	payload := map[string]any{
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]string{"content": params.Title}},
				},
			},
		},
	}

	if params.Content != "" {
		payload["children"] = []map[string]any{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []map[string]any{
						{"text": map[string]string{"content": params.Content}},
					},
				},
			},
		}
	}

	if params.ParentPageID != "" {
		payload["parent"] = map[string]string{"page_id": params.ParentPageID}
	} else {
		payload["parent"] = map[string]any{"type": "workspace", "workspace": true}
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", payload, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage patches page properties.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]any) error {
	payload := map[string]any{"properties": properties}
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, payload, nil)
}
