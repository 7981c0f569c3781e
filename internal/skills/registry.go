// Package skills discovers the registered skills and exposes them by
// keyword.
package skills

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/skillbox/skillbox/internal/schema"
)

var (
	// ErrNotFound is returned for keywords no skill is registered under.
	ErrNotFound = errors.New("skill not found")
	// ErrSkillLoad classifies a skill whose construction failed or panicked.
	ErrSkillLoad = errors.New("skill load failed")
	// ErrIncompleteMetadata marks a candidate lacking keyword, description or usage.
	ErrIncompleteMetadata = errors.New("incomplete skill metadata")
)

// Catalog is the read side of the registry plus explicit invalidation.
type Catalog interface {
	ListKeywords() []string
	Describe(keyword string) (schema.Descriptor, error)
	Descriptors() []schema.Descriptor
	Reload() error
}

type registered struct {
	desc  schema.Descriptor
	skill schema.Skill
}

// Registry holds the skills produced by the last discovery pass.
// A pass rebuilds every descriptor wholesale; nothing is mutated in place.
type Registry struct {
	entries []entry

	mu        sync.RWMutex
	byKeyword map[string]registered
	keywords  []string // longest first
}

var _ Catalog = (*Registry)(nil)

// Reload re-runs every factory and swaps in the new set. Load failures are
// isolated per skill; the aggregated error is returned for reporting and the
// registry is usable either way.
func (r *Registry) Reload() error {
	byKeyword := make(map[string]registered, len(r.entries))
	var result *multierror.Error

	for i, e := range r.entries {
		s, err := construct(e.factory, r)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("entry %d: %w", i, err))
			continue
		}

		desc := s.Info()
		if !desc.Complete() {
			slog.Debug("skills: skipping candidate without full metadata",
				"keyword", desc.Keyword, "err", ErrIncompleteMetadata)
			continue
		}
		desc.Category = e.category
		desc.Extra = maps.Clone(desc.Extra)

		if prev, ok := byKeyword[desc.Keyword]; ok {
			slog.Warn("skills: duplicate keyword, later registration wins",
				"keyword", desc.Keyword, "replaced", prev.desc.Category, "by", desc.Category)
		}
		byKeyword[desc.Keyword] = registered{desc: desc, skill: s}
	}

	keywords := make([]string, 0, len(byKeyword))
	for k := range byKeyword {
		keywords = append(keywords, k)
	}
	sortByLength(keywords)

	r.mu.Lock()
	r.byKeyword = byKeyword
	r.keywords = keywords
	r.mu.Unlock()

	slog.Debug("skills: discovery complete", "skills", len(keywords))

	if err := result.ErrorOrNil(); err != nil {
		slog.Error("skills: some skills failed to load", "err", err)
		return err
	}
	return nil
}

// ListKeywords returns every registered keyword, longest first.
func (r *Registry) ListKeywords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.keywords))
	copy(out, r.keywords)
	return out
}

// Describe returns the descriptor registered under keyword.
func (r *Registry) Describe(keyword string) (schema.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byKeyword[keyword]
	if !ok {
		return schema.Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, keyword)
	}
	return reg.desc, nil
}

// Resolve returns an invocable handle for keyword.
func (r *Registry) Resolve(keyword string) (schema.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byKeyword[keyword]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, keyword)
	}
	return reg.skill, nil
}

// Descriptors returns all descriptors, core skills first, then by keyword.
func (r *Registry) Descriptors() []schema.Descriptor {
	r.mu.RLock()
	out := make([]schema.Descriptor, 0, len(r.byKeyword))
	for _, reg := range r.byKeyword {
		out = append(out, reg.desc)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category == schema.CategoryCore
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKeyword)
}

// construct runs one factory, turning errors and panics into ErrSkillLoad.
func construct(f Factory, c Catalog) (s schema.Skill, err error) {
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, fmt.Errorf("%w: panic: %v", ErrSkillLoad, p)
		}
	}()
	s, err = f(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSkillLoad, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: factory returned no skill", ErrSkillLoad)
	}
	return s, nil
}

// sortByLength orders keywords by descending rune count, ties alphabetically.
func sortByLength(keywords []string) {
	sort.SliceStable(keywords, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keywords[i]), utf8.RuneCountInString(keywords[j])
		if li != lj {
			return li > lj
		}
		return keywords[i] < keywords[j]
	})
}
