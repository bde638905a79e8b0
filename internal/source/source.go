package source

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

// Kind is how a descriptor was interpreted.
type Kind int

const (
	KindGlob Kind = iota
	KindFile
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "glob"
	}
}

// Candidate is a regular file eligible to be tailed.
type Candidate struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Resolve returns the file to tail for descriptor. The boolean is false when
// no regular file matches.
func Resolve(descriptor string) (string, bool) {
	kind, candidates := Candidates(descriptor)
	if kind == KindFile {
		return descriptor, true
	}
	latest, ok := Latest(candidates)
	if !ok {
		return "", false
	}
	return latest.Path, true
}

// Candidates classifies descriptor and lists the regular files it covers in
// discovery order. An exact file yields a single candidate.
func Candidates(descriptor string) (Kind, []Candidate) {
	if strings.TrimSpace(descriptor) == "" {
		return KindGlob, nil
	}

	info, err := os.Stat(descriptor)
	if err == nil {
		switch {
		case info.Mode().IsRegular():
			return KindFile, []Candidate{newCandidate(descriptor, info)}
		case info.IsDir():
			return KindDirectory, dirCandidates(descriptor)
		}
	}
	return KindGlob, globCandidates(descriptor)
}

// Latest picks the candidate with the newest modification time. Among equal
// times the earliest in the slice wins.
func Latest(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return lo.MaxBy(candidates, func(a, b Candidate) bool {
		return a.ModTime.After(b.ModTime)
	}), true
}

// SortNewestFirst orders candidates by descending modification time, keeping
// discovery order for ties.
func SortNewestFirst(candidates []Candidate) []Candidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		return b.ModTime.Compare(a.ModTime)
	})
	return sorted
}

func dirCandidates(dir string) []Candidate {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	paths := lo.Map(entries, func(entry os.DirEntry, _ int) string {
		return filepath.Join(dir, entry.Name())
	})
	return regularFiles(paths)
}

func globCandidates(pattern string) []Candidate {
	// I/O errors while walking are ignored by FilepathGlob; only a malformed
	// pattern is reported.
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil
	}
	return regularFiles(matches)
}

// regularFiles stats each path, following symlinks, and drops anything that
// is not a regular file or has vanished since it was listed.
func regularFiles(paths []string) []Candidate {
	candidates := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, newCandidate(path, info))
	}
	return candidates
}

func newCandidate(path string, info os.FileInfo) Candidate {
	return Candidate{Path: path, ModTime: info.ModTime(), Size: info.Size()}
}
