// Package client calls a running urlshot service.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is an error answer from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("urlshot: %d %s", e.Status, e.Message)
}

type screenshotResponse struct {
	Img   string `json:"img"`
	Error string `json:"error"`
}

// Client talks to one service instance.
type Client struct {
	http *resty.Client
	key  string
}

// New returns a client for the service at baseURL. key may be empty.
func New(baseURL, key string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("User-Agent", "urlshotctl").
			// Cold renders include browser time, so leave plenty of room.
			SetTimeout(2 * time.Minute),
		key: key,
	}
}

// Screenshot asks for url at size and returns the image location (or file
// name, when the service does not host images itself).
func (c *Client) Screenshot(ctx context.Context, url, size string) (string, error) {
	params := map[string]string{
		"url":  url,
		"size": size,
	}
	if c.key != "" {
		params["key"] = c.key
	}

	var result, failure screenshotResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		SetError(&failure).
		Get("/")
	if err != nil {
		return "", fmt.Errorf("could not reach service: %w", err)
	}

	if resp.IsError() {
		msg := failure.Error
		if msg == "" {
			msg = resp.String()
		}
		return "", &APIError{Status: resp.StatusCode(), Message: msg}
	}

	return result.Img, nil
}
