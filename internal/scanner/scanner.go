package scanner

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fjglira/featureplan/internal/domain"
)

// Scanner discovers feature files in the project tree.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
	Expand(featurePaths []string, patterns []string, excludes []string) (*domain.FeatureSet, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// lineSuffixRe splits "path/to/a.feature:12:30" into the path and its line list.
var lineSuffixRe = regexp.MustCompile(`^(.+?)((?::\d+)+)$`)

// Expand resolves feature paths into an ordered, deduplicated list of files.
// Directories are walked with the include/exclude globs; explicit files are
// taken as given. A ":LINE" suffix restricts that file to scenarios at the
// given lines.
func (s *FileScanner) Expand(featurePaths []string, patterns []string, excludes []string) (*domain.FeatureSet, error) {
	set := &domain.FeatureSet{Lines: make(map[string][]int)}
	seen := make(map[string]struct{})
	unrestricted := make(map[string]bool)

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		set.Paths = append(set.Paths, path)
	}

	for _, raw := range featurePaths {
		path, lines := splitLineSuffix(raw)

		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewErrorWithSuggestion(domain.PhaseScan, path, 0,
				"feature path does not exist",
				"check input.feature_paths in featureplan.yaml",
				err)
		}

		if info.IsDir() && len(lines) > 0 {
			return nil, domain.NewErrorWithSuggestion(domain.PhaseScan, raw, 0,
				"line filters apply to feature files, not directories",
				"drop the :LINE suffix or point it at a single .feature file",
				nil)
		}

		if !info.IsDir() {
			add(path)
			if len(lines) == 0 {
				unrestricted[path] = true
			}
			set.Lines[path] = append(set.Lines[path], lines...)
			continue
		}

		files, err := s.Scan(path, patterns, excludes)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
			unrestricted[f] = true
		}
	}

	for path, lines := range set.Lines {
		if len(lines) == 0 || unrestricted[path] {
			delete(set.Lines, path)
		}
	}

	return set, nil
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Get path relative to rootDir for pattern matching
		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive {
				return filepath.SkipDir
			}
			for _, exc := range excludes {
				if matchGlob(relPath, exc) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, exc := range excludes {
			if matchGlob(relPath, exc) {
				return nil
			}
		}

		for _, pattern := range patterns {
			if matchGlob(relPath, pattern) {
				files = append(files, path)
				return nil
			}
		}

		return nil
	})

	if err != nil {
		return nil, domain.NewError(domain.PhaseScan, rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// splitLineSuffix separates trailing ":LINE" groups from a feature path. The
// path is cleaned so it compares equal to the paths Scan yields.
func splitLineSuffix(raw string) (string, []int) {
	m := lineSuffixRe.FindStringSubmatch(raw)
	if m == nil {
		return filepath.Clean(raw), nil
	}
	var lines []int
	for _, part := range strings.Split(strings.TrimPrefix(m[2], ":"), ":") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return filepath.Clean(raw), nil
		}
		lines = append(lines, n)
	}
	return filepath.Clean(m[1]), lines
}

// matchGlob matches a path against a glob pattern, supporting ** for recursive matching.
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		prefix = strings.TrimSuffix(prefix, string(filepath.Separator))
		suffix := strings.TrimPrefix(parts[1], "/")
		suffix = strings.TrimPrefix(suffix, string(filepath.Separator))

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+string(filepath.Separator)) {
				return false
			}
			path = strings.TrimPrefix(path, prefix)
			path = strings.TrimPrefix(path, string(filepath.Separator))
		}

		if suffix == "" {
			return true
		}

		// Try matching suffix against each possible subpath
		pathParts := strings.Split(path, string(filepath.Separator))
		for i := range pathParts {
			subPath := strings.Join(pathParts[i:], string(filepath.Separator))
			if matched, _ := filepath.Match(suffix, subPath); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
