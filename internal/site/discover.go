package site

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/page"
)

// Discover lists the source documents selected by the include and exclude
// patterns, as sorted slash separated paths relative to the source root.
// Hidden files and directories and meta sidecars are never selected.
func (b *Builder) Discover() ([]string, error) {
	var rels []string
	err := filepath.WalkDir(b.cfg.Source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != b.cfg.Source && d.Name()[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(b.cfg.Source, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if b.outputRel != "" && rel == b.outputRel {
				return fs.SkipDir
			}
			return nil
		}
		if b.Selects(rel) {
			rels = append(rels, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.FileSystemError("failed to scan source directory").WithCause(err).
			WithContext("dir", b.cfg.Source).
			Build()
	}
	sort.Strings(rels)
	return rels, nil
}

// Selects reports whether rel is a buildable document under the configured
// patterns. Files below an output directory nested in the source never are.
func (b *Builder) Selects(rel string) bool {
	if page.IsSidecar(rel) || b.inOutput(rel) {
		return false
	}
	if _, ok := page.KindOf(rel); !ok {
		return false
	}
	if !matchAny(b.cfg.Include, rel) {
		return false
	}
	return !matchAny(b.cfg.Exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (b *Builder) inOutput(rel string) bool {
	return b.outputRel != "" && (rel == b.outputRel || strings.HasPrefix(rel, b.outputRel+"/"))
}

// nestedDir returns dir relative to root, slash separated, when dir lies
// inside root, and "" otherwise.
func nestedDir(root, dir string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
