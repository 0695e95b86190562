package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/dictionary"
	"github.com/hupe1980/seqdata/internal/resource"
	"github.com/hupe1980/seqdata/reader"
	"golang.org/x/sync/errgroup"
)

// Config describes the layout of a data directory.
type Config struct {
	// Dir is the directory inside the store; empty means the store root.
	Dir string

	InputField  string
	TargetField string
	// WordsField is read as text when set.
	WordsField string
	// Extra maps further field names to their readers.
	Extra map[string]reader.FieldReader

	Channels      int
	Shift         int
	Dict          *dictionary.Dictionary
	SurroundLabel string
	RepLabel      int

	// MaxConcurrentReads bounds in-flight blob reads. Zero means unbounded.
	MaxConcurrentReads int64
	// IOLimitBytesPerSec throttles blob reads. Zero means unlimited.
	IOLimitBytesPerSec int64
}

// Source is a data directory opened for reading. It is safe for concurrent use.
type Source struct {
	store  blobstore.Store
	cfg    Config
	prefix string
	n      int

	input  reader.Features
	target reader.Tokens
	fields map[string]reader.FieldReader

	rc    *resource.Controller
	sizes [][2]int
}

// Open lists the directory and validates that examples 1..N are complete.
func Open(ctx context.Context, store blobstore.Store, cfg Config) (*Source, error) {
	if cfg.InputField == "" {
		return nil, errors.New("source: input field is required")
	}
	if cfg.TargetField != "" && cfg.Dict == nil {
		return nil, errors.New("source: target field requires a dictionary")
	}

	prefix := strings.TrimSuffix(cfg.Dir, "/")
	if prefix != "" {
		prefix += "/"
	}

	names, err := store.List(ctx, prefix)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, &MissingDirectoryError{Path: cfg.Dir}
		}
		return nil, fmt.Errorf("list %q: %w", cfg.Dir, err)
	}

	present := make(map[string]map[int]struct{})
	for _, name := range names {
		base := strings.TrimPrefix(name, prefix)
		if strings.Contains(base, "/") {
			continue
		}
		stem, ext, ok := strings.Cut(base, ".")
		if !ok || len(stem) != 9 {
			continue
		}
		id, err := strconv.Atoi(stem)
		if err != nil || id < 1 {
			continue
		}
		if present[ext] == nil {
			present[ext] = make(map[int]struct{})
		}
		present[ext][id] = struct{}{}
	}

	ids := present[cfg.InputField]
	if len(ids) == 0 {
		return nil, &MissingDirectoryError{Path: cfg.Dir}
	}
	n := len(ids)

	required := []string{cfg.InputField}
	if cfg.TargetField != "" {
		required = append(required, cfg.TargetField)
	}
	if cfg.WordsField != "" {
		required = append(required, cfg.WordsField)
	}
	for field := range cfg.Extra {
		required = append(required, field)
	}
	for _, field := range required {
		for id := 1; id <= n; id++ {
			if _, ok := present[field][id]; !ok {
				return nil, &MissingExampleError{ID: id, Field: field}
			}
		}
	}

	s := &Source{
		store:  store,
		cfg:    cfg,
		prefix: prefix,
		n:      n,
		input:  reader.Features{Channels: cfg.Channels, Shift: cfg.Shift},
		fields: make(map[string]reader.FieldReader),
		rc: resource.NewController(resource.Config{
			MaxConcurrentReads: cfg.MaxConcurrentReads,
			IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
		}),
	}
	if cfg.TargetField != "" {
		s.target = reader.Tokens{Dict: cfg.Dict, Surround: cfg.SurroundLabel, RepLabel: cfg.RepLabel}
	}
	if cfg.WordsField != "" {
		s.fields[cfg.WordsField] = reader.Text{}
	}
	for field, r := range cfg.Extra {
		s.fields[field] = r
	}

	if err := s.loadManifest(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the number of examples.
func (s *Source) Size() int {
	return s.n
}

// Name returns the blob name of field for the example at 0-based index i.
func (s *Source) Name(i int, field string) string {
	return fmt.Sprintf("%s%09d.%s", s.prefix, i+1, field)
}

// Data returns the view of full example records.
func (s *Source) Data() dataset.Dataset[dataset.Record] {
	return dataView{s}
}

// Sizes returns the view of size records.
func (s *Source) Sizes() dataset.Dataset[dataset.Record] {
	return sizeView{s}
}

// HasManifest reports whether size records come from a manifest.
func (s *Source) HasManifest() bool {
	return s.sizes != nil
}

// ReadStats returns the number of blob reads and bytes read so far.
func (s *Source) ReadStats() (reads, bytes int64) {
	return s.rc.Stats()
}

// Record reads and decodes every configured field of example i.
func (s *Source) Record(ctx context.Context, i int) (dataset.Record, error) {
	if i < 0 || i >= s.n {
		return nil, &dataset.IndexOutOfRangeError{Index: i, Size: s.n}
	}

	readers := make([]fieldReader, 0, 2+len(s.fields))
	readers = append(readers, fieldReader{s.cfg.InputField, s.input})
	if s.cfg.TargetField != "" {
		readers = append(readers, fieldReader{s.cfg.TargetField, s.target})
	}
	for field, r := range s.fields {
		readers = append(readers, fieldReader{field, r})
	}

	values := make([]any, len(readers))
	g, gctx := errgroup.WithContext(ctx)
	for k, fr := range readers {
		g.Go(func() error {
			name := s.Name(i, fr.field)
			data, err := s.read(gctx, name)
			if err != nil {
				return err
			}
			values[k], err = reader.Read(fr.r, name, data)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := make(dataset.Record, len(readers))
	for k, fr := range readers {
		switch fr.field {
		case s.cfg.InputField:
			rec[dataset.FieldInput] = values[k]
		case s.cfg.TargetField:
			rec[dataset.FieldTarget] = values[k]
		default:
			rec[fr.field] = values[k]
		}
	}
	return rec, nil
}

// SizeRecord returns the isz/tsz record of example i.
func (s *Source) SizeRecord(ctx context.Context, i int) (dataset.Record, error) {
	if i < 0 || i >= s.n {
		return nil, &dataset.IndexOutOfRangeError{Index: i, Size: s.n}
	}
	if s.sizes != nil {
		e := s.sizes[i]
		return dataset.Record{dataset.FieldInputSize: e[0], dataset.FieldTargetSize: e[1]}, nil
	}

	isz, err := s.inputLength(ctx, i)
	if err != nil {
		return nil, err
	}
	tsz := 0
	if s.cfg.TargetField != "" {
		name := s.Name(i, s.cfg.TargetField)
		data, err := s.read(ctx, name)
		if err != nil {
			return nil, err
		}
		if tsz, err = s.target.Length(data); err != nil {
			return nil, &reader.DecodeError{Name: name, Err: err}
		}
	}
	return dataset.Record{dataset.FieldInputSize: isz, dataset.FieldTargetSize: tsz}, nil
}

// inputLength reads only the blob header when the features are uncompressed.
func (s *Source) inputLength(ctx context.Context, i int) (int, error) {
	name := s.Name(i, s.cfg.InputField)

	if err := s.rc.AcquireRead(ctx); err != nil {
		return 0, err
	}
	b, err := s.store.Open(ctx, name)
	if err != nil {
		s.rc.ReleaseRead()
		return 0, err
	}
	header := make([]byte, reader.HeaderSize)
	hn, err := b.ReadAt(ctx, header, 0)
	size := b.Size()
	_ = b.Close()
	s.rc.ReleaseRead()
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}

	if reader.Detect(header[:hn]) == reader.None {
		if err := s.rc.AcquireIO(ctx, hn); err != nil {
			return 0, err
		}
		if size%int64(max(s.cfg.Channels, 1)*4) != 0 {
			return 0, &reader.DecodeError{Name: name, Err: reader.ErrMisaligned}
		}
		return s.input.Frames(size), nil
	}

	data, err := s.read(ctx, name)
	if err != nil {
		return 0, err
	}
	n, err := s.input.Length(data)
	if err != nil {
		return 0, &reader.DecodeError{Name: name, Err: err}
	}
	return n, nil
}

func (s *Source) read(ctx context.Context, name string) ([]byte, error) {
	if err := s.rc.AcquireRead(ctx); err != nil {
		return nil, err
	}
	data, err := blobstore.ReadAll(ctx, s.store, name)
	s.rc.ReleaseRead()
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, err
	}
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

type fieldReader struct {
	field string
	r     reader.FieldReader
}

type dataView struct{ s *Source }

func (v dataView) Size() int { return v.s.n }

func (v dataView) Get(ctx context.Context, i int) (dataset.Record, error) {
	return v.s.Record(ctx, i)
}

type sizeView struct{ s *Source }

func (v sizeView) Size() int { return v.s.n }

func (v sizeView) Get(ctx context.Context, i int) (dataset.Record, error) {
	return v.s.SizeRecord(ctx, i)
}

// Fields returns the field names a data record carries, besides input and
// target, in sorted order.
func (s *Source) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for f := range s.fields {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
