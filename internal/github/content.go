package github

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// File is a downloaded repository file.
type File struct {
	Name    string
	Path    string
	SHA     string
	Size    int
	Content []byte
	// LastModified is the Last-Modified header of the contents response.
	LastModified string
}

// Stamp identifies the file revision. The blob SHA is preferred over Last-Modified.
func (f *File) Stamp() string {
	if f.SHA != "" {
		return f.SHA
	}
	return f.LastModified
}

type contentResponse struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	DownloadURL string `json:"download_url"`
}

func (c *Client) getContent(owner, repo, path, ref string) (*File, error) {
	if owner == "" || repo == "" || path == "" {
		return nil, fmt.Errorf("owner, repo and path are required")
	}

	apiURLContents := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.APIURL, url.PathEscape(owner), url.PathEscape(repo), escapePath(path))

	var q url.Values
	if ref != "" {
		q = url.Values{}
		q.Set("ref", ref)
	}

	var payload contentResponse
	resp, err := c.getJSON(apiURLContents, q, &payload)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s/%s: %w", owner, repo, path, err)
	}

	if payload.Type != "" && payload.Type != "file" {
		return nil, fmt.Errorf("%s/%s/%s is a %s, not a file", owner, repo, path, payload.Type)
	}

	file := &File{
		Name:         payload.Name,
		Path:         payload.Path,
		SHA:          payload.SHA,
		Size:         payload.Size,
		LastModified: resp.LastModified,
	}

	// The API leaves content empty for files over 1 MB.
	if payload.Content == "" && payload.DownloadURL != "" {
		raw, err := c.get(payload.DownloadURL, nil, acceptRaw)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", payload.DownloadURL, err)
		}
		file.Content = raw.Body
		return file, nil
	}

	content, err := decodeContent(payload.Encoding, payload.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s/%s: %w", owner, repo, path, err)
	}
	file.Content = content

	return file, nil
}

func decodeContent(encoding, content string) ([]byte, error) {
	switch encoding {
	case "base64":
		// the API wraps base64 payloads at 60 columns
		cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(content)
		return base64.StdEncoding.DecodeString(cleaned)
	case "", "utf-8":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func escapePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
