package sync

import (
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreMatcher matches repository paths against ignore globs with caching.
//
// A path is ignored when any pattern matches it. "**" crosses directory
// separators; "*" and "?" do not.
type IgnoreMatcher struct {
	patterns []string
	cache    sync.Map // map[string]bool for path -> ignored mapping
}

// NewIgnoreMatcher creates a matcher. Patterns are expected to have passed
// config validation; a malformed pattern never matches.
func NewIgnoreMatcher(patterns []string) *IgnoreMatcher {
	return &IgnoreMatcher{
		patterns: append([]string(nil), patterns...),
	}
}

// IsIgnored reports whether filePath matches any pattern
func (m *IgnoreMatcher) IsIgnored(filePath string) bool {
	normalizedPath := filepath.ToSlash(filePath)

	if cached, found := m.cache.Load(normalizedPath); found {
		return cached.(bool)
	}

	ignored := false
	for _, pattern := range m.patterns {
		if ok, err := doublestar.Match(pattern, normalizedPath); err == nil && ok {
			ignored = true
			break
		}
	}

	m.cache.Store(normalizedPath, ignored)

	return ignored
}

// Partition splits files into kept and ignored, preserving input order.
// Both results are non-nil.
func (m *IgnoreMatcher) Partition(files []string) (kept, ignored []string) {
	kept = make([]string, 0, len(files))
	ignored = make([]string, 0)

	if len(m.patterns) == 0 {
		return append(kept, files...), ignored
	}

	for _, f := range files {
		if m.IsIgnored(f) {
			ignored = append(ignored, f)
		} else {
			kept = append(kept, f)
		}
	}
	return kept, ignored
}

// Patterns returns a copy of the configured patterns
func (m *IgnoreMatcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// PartitionByIgnore splits files into those kept and those matching at least
// one of patterns. With no patterns every file is kept.
func PartitionByIgnore(files, patterns []string) (kept, ignored []string) {
	return NewIgnoreMatcher(patterns).Partition(files)
}
