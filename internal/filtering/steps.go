package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/portfolio/internal/github"
)

// toggle carries the enable/disable state shared by the simple filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type forksFilter struct{ toggle }

// NewForks creates a filter that removes forked repositories.
func NewForks() Filter {
	return &forksFilter{}
}

func (f *forksFilter) Name() string { return "forks" }

func (f *forksFilter) Validate() error { return nil }

func (f *forksFilter) Apply(_ context.Context, r *github.Repositories) (*github.Repositories, Step, error) {
	initial := r.Len()
	removed := r.RemoveIf(func(repo *github.Repository) bool { return repo.Fork })

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *forksFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type archivedFilter struct{ toggle }

// NewArchived creates a filter that removes archived repositories.
func NewArchived() Filter {
	return &archivedFilter{}
}

func (f *archivedFilter) Name() string { return "archived" }

func (f *archivedFilter) Validate() error { return nil }

func (f *archivedFilter) Apply(_ context.Context, r *github.Repositories) (*github.Repositories, Step, error) {
	initial := r.Len()
	removed := r.RemoveIf(func(repo *github.Repository) bool { return repo.Archived })

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *archivedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type withoutDescriptionFilter struct{ toggle }

// NewWithoutDescription creates a filter that removes repositories without a description.
func NewWithoutDescription() Filter {
	return &withoutDescriptionFilter{}
}

func (f *withoutDescriptionFilter) Name() string { return "without_description" }

func (f *withoutDescriptionFilter) Validate() error { return nil }

func (f *withoutDescriptionFilter) Apply(_ context.Context, r *github.Repositories) (*github.Repositories, Step, error) {
	initial := r.Len()
	removed := r.RemoveIf(func(repo *github.Repository) bool {
		return strings.TrimSpace(repo.Description) == ""
	})

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *withoutDescriptionFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type excludedNamesFilter struct {
	toggle
	names []string
}

// NewExcludedNames creates a filter that removes repositories by name.
func NewExcludedNames(names []string) Filter {
	return &excludedNamesFilter{
		names: names,
	}
}

func (f *excludedNamesFilter) Name() string { return "excluded_names" }

func (f *excludedNamesFilter) Validate() error {
	for _, name := range f.names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty repository name in exclude list")
		}
	}
	return nil
}

func (f *excludedNamesFilter) Apply(_ context.Context, r *github.Repositories) (*github.Repositories, Step, error) {
	initial := r.Len()
	if len(f.names) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	removed := r.Exclude(github.RepoNameField, f.names)

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *excludedNamesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["names"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type limitFilter struct {
	toggle
	max int
}

// NewLimit keeps at most limit repositories. Zero means no limit.
func NewLimit(limit int) Filter {
	return &limitFilter{max: limit}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Validate() error {
	if f.max < 0 {
		return fmt.Errorf("limit must not be negative, got %d", f.max)
	}
	return nil
}

func (f *limitFilter) Apply(_ context.Context, r *github.Repositories) (*github.Repositories, Step, error) {
	initial := r.Len()
	if f.max == 0 || initial <= f.max {
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	r.Items = r.Items[:f.max]

	return r, Step{Initial: initial, Dropped: initial - f.max, Left: r.Len()}, nil
}

func (f *limitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"max": strconv.Itoa(f.max)},
	}
}
