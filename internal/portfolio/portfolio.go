// Package portfolio assembles the data of the portfolio page: the parsed
// resume and the list of projects.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/portfolio/internal/cache"
	"github.com/spigell/portfolio/internal/filtering"
	"github.com/spigell/portfolio/internal/github"
	"github.com/spigell/portfolio/internal/logger"
	"github.com/spigell/portfolio/internal/resume"
)

const (
	ResumeUnavailable   = "Resume unavailable."
	ProjectsUnavailable = "Projects unavailable."
)

// Source is the retrieval side of GitHub used by the builder.
type Source interface {
	GetContent(ctx context.Context, owner, repo, path, ref string) (*github.File, error)
	ListRepos(ctx context.Context, user string) (*github.Repositories, error)
}

type ResumeConfig struct {
	Owner string `mapstructure:"owner" validate:"required_without=File"`
	Repo  string `mapstructure:"repo" validate:"required_without=File"`
	Path  string `mapstructure:"path" validate:"required_without=File"`
	Ref   string `mapstructure:"ref"`
	// File reads the document from disk instead of GitHub.
	File string `mapstructure:"file"`

	resume.Options `mapstructure:",squash"`
}

type ProjectsConfig struct {
	User               string   `mapstructure:"user"`
	IncludeForks       bool     `mapstructure:"include-forks"`
	IncludeArchived    bool     `mapstructure:"include-archived"`
	RequireDescription bool     `mapstructure:"require-description"`
	Exclude            []string `mapstructure:"exclude"`
	Limit              int      `mapstructure:"limit" validate:"gte=0"`
}

type Config struct {
	Resume   ResumeConfig   `mapstructure:"resume"`
	Projects ProjectsConfig `mapstructure:"projects"`
}

type Deps struct {
	Source Source
	Cache  *cache.File
	Logger *zap.Logger
}

// Page is everything the page renderer needs.
type Page struct {
	Resume        *resume.Record
	ResumeError   string
	Projects      []*github.Repository
	ProjectsError string
	GeneratedAt   time.Time
}

type Builder struct {
	config Config
	source Source
	cache  *cache.File
	logger *zap.Logger
}

func New(cfg Config, deps Deps) *Builder {
	l := deps.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &Builder{
		config: cfg,
		source: deps.Source,
		cache:  deps.Cache,
		logger: l,
	}
}

// Build fetches and parses everything for the page. The resume and the
// projects are loaded in parallel. Retrieval failures are logged and replaced
// with placeholders; only a cancelled context fails the build.
func (b *Builder) Build(ctx context.Context) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &Page{GeneratedAt: time.Now().UTC()}

	// each branch owns its own page fields
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record, err := b.Resume(gCtx)
		if err != nil {
			b.logger.Warn("resume is not available", zap.Error(err))
			page.ResumeError = ResumeUnavailable
		}
		page.Resume = record
		return nil
	})

	g.Go(func() error {
		projects, err := b.Projects(gCtx)
		if err != nil {
			b.logger.Warn("projects are not available", zap.Error(err))
			page.ProjectsError = ProjectsUnavailable
		}
		page.Projects = projects
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return page, nil
}

// Resume loads the resume document and parses it, reusing the cached record
// while the document is unchanged.
func (b *Builder) Resume(ctx context.Context) (*resume.Record, error) {
	cfg := b.config.Resume

	data, key, stamp, err := b.loadDocument(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// records parsed under other options are not reused
	key += optionsSuffix(cfg.Options)

	l := logger.WithSource(b.logger, cfg.Owner, cfg.Repo, cfg.Path, cfg.Ref)

	var record resume.Record
	hit, err := b.cache.Lookup(key, stamp, &record)
	if err != nil {
		l.Warn("ignoring unreadable cache entry", zap.String("key", key), zap.Error(err))
	}
	if hit {
		l.Debug("resume served from cache", zap.String("stamp", stamp))
		return &record, nil
	}

	parsed, err := resume.Parse(data, cfg.Options)
	if err != nil {
		return nil, err
	}

	l.Info("resume parsed",
		zap.String("name", parsed.Name),
		zap.Int("jobs", len(parsed.Experience)),
		zap.Int("skill_groups", len(parsed.Skills)),
		zap.String("summary", logger.TruncateForLog(parsed.Summary, 60)),
	)

	if err := b.cache.Store(key, stamp, parsed); err != nil {
		l.Warn("storing resume in cache", zap.String("path", b.cache.Path()), zap.Error(err))
	}

	return parsed, nil
}

func (b *Builder) loadDocument(ctx context.Context, cfg ResumeConfig) ([]byte, string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", "", err
	}

	if cfg.File != "" {
		info, err := os.Stat(cfg.File)
		if err != nil {
			return nil, "", "", fmt.Errorf("resume file: %w", err)
		}

		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, "", "", fmt.Errorf("reading resume file: %w", err)
		}

		stamp := fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size())
		return data, "file:" + cfg.File, stamp, nil
	}

	if b.source == nil {
		return nil, "", "", errors.New("github source is not configured")
	}

	file, err := b.source.GetContent(ctx, cfg.Owner, cfg.Repo, cfg.Path, cfg.Ref)
	if err != nil {
		return nil, "", "", err
	}

	return file.Content, SourceKey(cfg.Owner, cfg.Repo, cfg.Path, cfg.Ref), file.Stamp(), nil
}

// SourceKey identifies a document in the cache.
func SourceKey(owner, repo, path, ref string) string {
	key := strings.Join([]string{owner, repo, strings.Trim(path, "/")}, "/")
	if ref != "" {
		key += "@" + ref
	}
	return key
}

func optionsSuffix(opts resume.Options) string {
	return fmt.Sprintf("#tables=%t,text=%t", opts.SkillsFromTables, opts.IncludeTableText)
}

// Projects lists the user's repositories and applies the configured filters.
// No user configured means no projects section.
func (b *Builder) Projects(ctx context.Context) ([]*github.Repository, error) {
	cfg := b.config.Projects
	if cfg.User == "" {
		return nil, nil
	}

	if b.source == nil {
		return nil, errors.New("github source is not configured")
	}

	repos, err := b.source.ListRepos(ctx, cfg.User)
	if err != nil {
		return nil, fmt.Errorf("listing repositories of %s: %w", cfg.User, err)
	}

	filters := b.filters()
	repos, err = filters.RunFilters(ctx, repos)
	if err != nil {
		return nil, fmt.Errorf("filtering repositories: %w", err)
	}

	b.logger.Info("projects loaded", zap.String("user", cfg.User), zap.Int("count", repos.Len()))

	return repos.Items, nil
}

func (b *Builder) filters() *filtering.Filtering {
	cfg := b.config.Projects

	f := filtering.New([]filtering.Filter{
		filtering.NewForks(),
		filtering.NewArchived(),
		filtering.NewWithoutDescription(),
		filtering.NewExcludedNames(cfg.Exclude),
		filtering.NewLimit(cfg.Limit),
	}, b.logger)

	if cfg.IncludeForks {
		f.DisableByName("forks", "forks are included by configuration")
	}
	if cfg.IncludeArchived {
		f.DisableByName("archived", "archived repositories are included by configuration")
	}
	if !cfg.RequireDescription {
		f.DisableByName("without_description", "description is not required")
	}

	return f
}
