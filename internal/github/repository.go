package github

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

const (
	RepoNameField     = "Name"
	RepoLanguageField = "Language"
)

type Repositories struct {
	Items []*Repository
}

type Repository struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name" mapstructure:"full_name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url" mapstructure:"html_url"`
	Homepage    string   `json:"homepage"`
	Language    string   `json:"language"`
	Fork        bool     `json:"fork"`
	Archived    bool     `json:"archived"`
	Stars       int      `json:"stargazers_count" mapstructure:"stargazers_count"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updated_at" mapstructure:"updated_at"`
}

func (c *Client) listRepos(user string) (*Repositories, error) {
	if user == "" {
		return nil, fmt.Errorf("user is required")
	}

	apiURLRepos := fmt.Sprintf("%s/users/%s/repos", c.APIURL, url.PathEscape(user))

	q := url.Values{}
	q.Set("sort", "updated")

	items, err := c.GetItems(apiURLRepos, q)
	if err != nil {
		return nil, err
	}

	var repos []*Repository
	cfg := &mapstructure.DecoderConfig{
		Result:           &repos,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding repositories: %w", err)
	}

	return &Repositories{
		Items: repos,
	}, nil
}

func (r *Repositories) Len() int {
	return len(r.Items)
}

func (r *Repositories) Names() []string {
	names := make([]string, 0, len(r.Items))

	for _, v := range r.Items {
		names = append(names, v.Name)
	}

	return names
}

func (r *Repositories) FindByName(name string) *Repository {
	for _, repo := range r.Items {
		if repo.Name == name {
			return repo
		}
	}

	return nil
}

func (repo *Repository) GetStringField(name string) string {
	switch name {
	case RepoNameField:
		return repo.Name
	case RepoLanguageField:
		return repo.Language
	default:
		return ""
	}
}

// Exclude removes repositories whose field matches any target and returns
// the removed names. Order of the remaining items is preserved.
func (r *Repositories) Exclude(field string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}

	return r.RemoveIf(func(repo *Repository) bool {
		_, ok := set[repo.GetStringField(field)]
		return ok
	})
}

// RemoveIf drops repositories matching the predicate and returns their names.
func (r *Repositories) RemoveIf(drop func(*Repository) bool) []string {
	var removed []string
	kept := r.Items[:0]
	for _, repo := range r.Items {
		if drop(repo) {
			removed = append(removed, repo.Name)
			continue
		}
		kept = append(kept, repo)
	}
	r.Items = kept

	return removed
}
