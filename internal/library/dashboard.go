package library

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	dashboardPath = "/dashboard"
	chatPath      = "/chat/query"

	// MaxChatMessageLength bounds assistant queries, in characters.
	MaxChatMessageLength = 500
)

// FetchStatistics retrieves the headline catalog and lending counts.
func (c *Client) FetchStatistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	if err := c.do(ctx, call{op: "dashboard.statistics", method: http.MethodGet, path: dashboardPath + "/statistic", dest: &stats}); err != nil {
		return Statistics{}, err
	}
	return stats, nil
}

// FetchRecentActivity retrieves the latest borrow and return events.
func (c *Client) FetchRecentActivity(ctx context.Context) ([]Activity, error) {
	var items []Activity
	if err := c.do(ctx, call{op: "dashboard.recent", method: http.MethodGet, path: dashboardPath + "/recent", dest: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchPopularBooks retrieves the most borrowed titles.
func (c *Client) FetchPopularBooks(ctx context.Context) ([]PopularBook, error) {
	var items []PopularBook
	if err := c.do(ctx, call{op: "dashboard.popular", method: http.MethodGet, path: dashboardPath + "/popular", dest: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// SendChat forwards a natural-language query to the backend assistant.
func (c *Client) SendChat(ctx context.Context, message string) (ChatReply, error) {
	if strings.TrimSpace(message) == "" || utf8.RuneCountInString(message) > MaxChatMessageLength {
		return ChatReply{}, ErrInvalidChatMessage
	}
	body := struct {
		Message string `json:"message"`
	}{Message: message}
	var reply ChatReply
	if err := c.do(ctx, call{op: "chat.query", method: http.MethodPost, path: chatPath, body: body, dest: &reply}); err != nil {
		return ChatReply{}, err
	}
	return reply, nil
}
