package github

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "spigell/portfolio"
	// Max value for listing per page.
	perPage = 100
)

type Client struct {
	// ctx used only for http requests; methods swap in the caller's ctx
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns a client. The token is optional; anonymous requests are rate limited harder.
func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// WithContext returns a shallow copy of the client whose requests use ctx.
func (c *Client) WithContext(ctx context.Context) *Client {
	if ctx == nil {
		return c
	}
	c2 := *c
	c2.ctx = ctx
	return &c2
}

// GetContent downloads a file from a repository. Empty ref means the default branch.
func (c *Client) GetContent(ctx context.Context, owner, repo, path, ref string) (*File, error) {
	return c.WithContext(ctx).getContent(owner, repo, path, ref)
}

// ListRepos returns public repositories of the user, most recently updated first.
func (c *Client) ListRepos(ctx context.Context, user string) (*Repositories, error) {
	return c.WithContext(ctx).listRepos(user)
}
