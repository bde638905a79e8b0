package api

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"webtail/internal/config"
	"webtail/internal/source"
	"webtail/internal/tail"
)

// TailSnapshot is the result of one resolve-and-read pass.
type TailSnapshot struct {
	Source      string
	File        string
	Found       bool
	Lines       []string
	GeneratedAt time.Time
}

// Resolver maps a source descriptor to the file to tail.
type Resolver func(descriptor string) (string, bool)

// Reader returns the last maxLines lines of the file at path.
type Reader func(path string, maxLines, blockSize int) ([]string, error)

// TailOption customizes a TailService.
type TailOption func(*TailService)

// WithResolver replaces source.Resolve.
func WithResolver(resolve Resolver) TailOption {
	return func(s *TailService) {
		s.resolve = resolve
	}
}

// WithReader replaces tail.ReadFile.
func WithReader(read Reader) TailOption {
	return func(s *TailService) {
		s.read = read
	}
}

// TailService produces snapshots for a fixed source and line count.
type TailService struct {
	descriptor string
	lines      int
	blockSize  int
	now        func() time.Time
	resolve    Resolver
	read       Reader
}

// NewTailService builds a service from the [tail] settings and source.
func NewTailService(cfg *config.Config, opts ...TailOption) *TailService {
	s := &TailService{
		descriptor: cfg.Source,
		lines:      cfg.Tail.Lines,
		blockSize:  cfg.Tail.BlockSize,
		now:        time.Now,
		resolve:    source.Resolve,
		read:       tail.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the descriptor the service resolves.
func (s *TailService) Source() string {
	return s.descriptor
}

// Snapshot resolves the source and reads its tail. When an opened file cannot
// be read the snapshot is still returned, with Found set and no lines,
// alongside the error.
func (s *TailService) Snapshot(ctx context.Context) (TailSnapshot, error) {
	snap := TailSnapshot{Source: s.descriptor, GeneratedAt: s.now()}
	if err := ctx.Err(); err != nil {
		return snap, err
	}

	path, ok := s.resolve(s.descriptor)
	if !ok {
		return snap, nil
	}

	lines, err := s.read(path, s.lines, s.blockSize)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snap, nil
		}
		snap.File = path
		snap.Found = true
		return snap, err
	}

	snap.File = path
	snap.Found = true
	snap.Lines = lines
	return snap, nil
}
