// Package lint validates a generated API reference directory: the index must
// list exactly the stub pages present on disk (skipped modules may appear in
// the index without a page), and every page must carry a well-formed title.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/stub"
)

// Config contains configuration for the linter.
type Config struct {
	// Format is the reference format being checked ("rst" or "md").
	Format string
	// Quiet suppresses warnings, only reporting errors.
	Quiet bool
}

// Linter validates generated reference directories.
type Linter struct {
	cfg *Config
}

// NewLinter creates a linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg.Format == "" {
		cfg.Format = config.FormatRST
	}
	return &Linter{cfg: cfg}
}

// LintDir checks the reference directory and returns all issues found.
func (l *Linter) LintDir(dir string) (*Result, error) {
	result := &Result{}
	ext := "." + l.cfg.Format
	indexName := stub.IndexBase + ext
	indexPath := filepath.Join(dir, indexName)

	pages, err := l.stubPages(dir, ext, indexName)
	if err != nil {
		return nil, err
	}
	result.FilesTotal = len(pages)

	indexData, err := os.ReadFile(indexPath)
	if os.IsNotExist(err) {
		result.Issues = append(result.Issues, Issue{
			FilePath: indexPath,
			Severity: SeverityError,
			Rule:     "index-exists",
			Message:  fmt.Sprintf("index file %s is missing", indexName),
		})
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	result.FilesTotal++

	listed, err := l.indexEntries(indexData)
	if err != nil {
		return nil, err
	}

	listedSet := make(map[string]struct{}, len(listed))
	for _, module := range listed {
		listedSet[module] = struct{}{}
	}
	pageSet := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		pageSet[page] = struct{}{}
	}

	// A listed module without a page is normal for skipped modules, so it is
	// only a warning. A page the index never mentions breaks navigation.
	for _, module := range listed {
		if _, ok := pageSet[module]; !ok {
			result.Issues = append(result.Issues, Issue{
				FilePath: indexPath,
				Severity: SeverityWarning,
				Rule:     "index-entry-has-page",
				Message:  fmt.Sprintf("index lists %s but no %s%s exists (module skipped?)", module, module, ext),
			})
		}
	}
	for _, page := range pages {
		if _, ok := listedSet[page]; !ok {
			result.Issues = append(result.Issues, Issue{
				FilePath: filepath.Join(dir, page+ext),
				Severity: SeverityError,
				Rule:     "page-in-index",
				Message:  fmt.Sprintf("stub page %s%s is not listed in %s", page, ext, indexName),
			})
		}
	}

	// The index must be sorted for stable navigation.
	if !sort.StringsAreSorted(listed) {
		result.Issues = append(result.Issues, Issue{
			FilePath: indexPath,
			Severity: SeverityError,
			Rule:     "index-sorted",
			Message:  "index entries are not in lexicographic order",
		})
	}

	for _, page := range pages {
		issues, err := l.checkPage(dir, page, ext)
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, issues...)
	}

	if l.cfg.Quiet {
		filtered := result.Issues[:0]
		for _, issue := range result.Issues {
			if issue.Severity == SeverityError {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
	}

	return result, nil
}

// stubPages returns the module names of stub pages on disk, excluding the
// generated index and the hand-written placeholder.
func (l *Linter) stubPages(dir, ext, indexName string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("reference directory does not exist: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read reference directory: %w", err)
	}

	var pages []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		if name == indexName || name == "index"+ext {
			continue
		}
		pages = append(pages, strings.TrimSuffix(name, ext))
	}
	sort.Strings(pages)
	return pages, nil
}

// indexEntries extracts the module names listed in the index file.
func (l *Linter) indexEntries(data []byte) ([]string, error) {
	if l.cfg.Format == config.FormatMarkdown {
		links, err := markdownLinks(data)
		if err != nil {
			return nil, err
		}
		entries := make([]string, 0, len(links))
		for _, link := range links {
			entries = append(entries, strings.TrimSuffix(link, ".md"))
		}
		return entries, nil
	}

	// RST: entries are the indented non-option lines of the toctree block.
	var entries []string
	inToctree := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".. toctree::") {
			inToctree = true
			continue
		}
		if !inToctree {
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			continue
		}
		if !strings.HasPrefix(line, "   ") {
			// Dedent ends the toctree block.
			break
		}
		entries = append(entries, trimmed)
	}
	return entries, nil
}

// checkPage validates the title of one stub page.
func (l *Linter) checkPage(dir, module, ext string) ([]Issue, error) {
	path := filepath.Join(dir, module+ext)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stub page: %w", err)
	}

	if l.cfg.Format == config.FormatMarkdown {
		title, err := markdownTitle(data)
		if err != nil {
			return nil, err
		}
		if title != module {
			return []Issue{{
				FilePath: path,
				Severity: SeverityError,
				Rule:     "page-title",
				Message:  fmt.Sprintf("title %q does not match module name %q", title, module),
			}}, nil
		}
		return nil, nil
	}

	lines := strings.SplitN(string(data), "\n", 3)
	if len(lines) < 2 || lines[0] != module {
		return []Issue{{
			FilePath: path,
			Severity: SeverityError,
			Rule:     "page-title",
			Message:  fmt.Sprintf("first line must be the module name %q", module),
		}}, nil
	}
	if lines[1] != strings.Repeat("=", len(module)) {
		return []Issue{{
			FilePath: path,
			Severity: SeverityError,
			Rule:     "page-title-underline",
			Message:  "title underline length does not match the title",
		}}, nil
	}
	return nil, nil
}
