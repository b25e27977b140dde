package github

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	acceptJSON      = "application/vnd.github+json"
	acceptRaw       = "application/vnd.github.raw"
	apiVersion      = "2022-11-28"
	contentEncoding = "gzip"
)

// ErrNotFound is matched by API errors with a 404 status.
var ErrNotFound = errors.New("not found")

// APIError is returned for non-2xx responses.
type APIError struct {
	URL        string
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bad status from %s: %s: %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("bad status from %s: %s", e.URL, e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Item interface{}

// response is a fully read API response.
type response struct {
	Body         []byte
	LastModified string
}

// GetItems makes GET requests to the list endpoint and returns items from all pages.
func (c *Client) GetItems(endpoint string, q url.Values) ([]Item, error) {
	var items []Item

	if q == nil {
		q = url.Values{}
	}
	q.Set("per_page", strconv.Itoa(perPage))

	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))

		var pageItems []Item
		if _, err := c.getJSON(endpoint, q, &pageItems); err != nil {
			return nil, err
		}

		items = append(items, pageItems...)

		if len(pageItems) < perPage {
			break
		}

		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"page %d is full (%d items)", page, len(pageItems)),
		))
	}

	return items, nil
}

func (c *Client) getJSON(endpoint string, q url.Values, target interface{}) (*response, error) {
	resp, err := c.get(endpoint, q, acceptJSON)
	if err != nil {
		return nil, err
	}

	if target == nil {
		return resp, nil
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}

	return resp, nil
}

func (c *Client) get(endpoint string, q url.Values, accept string) (*response, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", accept)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(data),
		}
	}

	return &response{
		Body:         data,
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	return req
}

// errorMessage pulls the "message" field out of a GitHub error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
