package source

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/hupe1980/seqdata/codec"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/internal/hash"
	"golang.org/x/sync/errgroup"
)

// ManifestName is the blob holding cached size records.
const ManifestName = "sizes.json"

// Manifest caches the size records of a data directory.
//
// The key records every setting that changes a size; a manifest whose key or
// count does not match the opened directory is ignored. A checksum mismatch
// is an error.
type Manifest struct {
	Codec    string      `json:"codec"`
	Key      ManifestKey `json:"key"`
	Sizes    [][2]int    `json:"sizes"`
	Checksum uint32      `json:"checksum"`
}

// ErrManifestChecksum is returned when a manifest's size table does not match
// its checksum.
var ErrManifestChecksum = errors.New("size manifest checksum mismatch")

// ManifestKey identifies the settings a manifest was computed with.
type ManifestKey struct {
	InputField    string `json:"input_field"`
	TargetField   string `json:"target_field"`
	Channels      int    `json:"channels"`
	Shift         int    `json:"shift"`
	SurroundLabel string `json:"surround_label,omitempty"`
	RepLabel      int    `json:"rep_label,omitempty"`
}

func (s *Source) manifestKey() ManifestKey {
	return ManifestKey{
		InputField:    s.cfg.InputField,
		TargetField:   s.cfg.TargetField,
		Channels:      max(s.cfg.Channels, 1),
		Shift:         s.cfg.Shift,
		SurroundLabel: s.cfg.SurroundLabel,
		RepLabel:      s.cfg.RepLabel,
	}
}

func (s *Source) loadManifest(ctx context.Context) error {
	data, err := blobstore.ReadAll(ctx, s.store, s.prefix+ManifestName)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var m Manifest
	if err := codec.Default.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%s%s: %w", s.prefix, ManifestName, err)
	}
	if c, ok := codec.ByName(m.Codec); ok && c.Name() != codec.Default.Name() {
		m = Manifest{}
		if err := c.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("%s%s: %w", s.prefix, ManifestName, err)
		}
	}
	if m.Key != s.manifestKey() || len(m.Sizes) != s.n {
		return nil
	}
	if hash.SizesChecksum(m.Sizes) != m.Checksum {
		return fmt.Errorf("%s%s: %w", s.prefix, ManifestName, ErrManifestChecksum)
	}
	s.sizes = m.Sizes
	return nil
}

// ComputeSizes reads the size record of every example with at most
// concurrency parallel reads (GOMAXPROCS when <= 0).
func (s *Source) ComputeSizes(ctx context.Context, concurrency int) ([][2]int, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	out := make([][2]int, s.n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range s.n {
		g.Go(func() error {
			isz, tsz, err := dataset.ReadSizes(gctx, s.Sizes(), i)
			if err != nil {
				return err
			}
			out[i] = [2]int{isz, tsz}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteManifest computes the size records and stores them next to the
// examples, encoded with c (codec.Default when nil). Directories opened
// afterwards read sizes from the manifest.
func (s *Source) WriteManifest(ctx context.Context, c codec.Codec, concurrency int) error {
	if c == nil {
		c = codec.Default
	}
	sizes, err := s.ComputeSizes(ctx, concurrency)
	if err != nil {
		return err
	}
	data, err := c.Marshal(Manifest{
		Codec:    c.Name(),
		Key:      s.manifestKey(),
		Sizes:    sizes,
		Checksum: hash.SizesChecksum(sizes),
	})
	if err != nil {
		return err
	}
	return s.store.Put(ctx, s.prefix+ManifestName, data)
}
