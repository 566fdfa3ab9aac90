package rollup

import (
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/metrics"
	"github.com/michaelscutari/docstat/internal/pathutil"
)

// DefaultCacheSize bounds the number of memoized directory aggregates.
const DefaultCacheSize = 16384

// Aggregator computes recursive directory totals straight from the file
// system, for any path, whether or not the scanner visited it. Results are
// memoized per directory so that a full walk costs one pass over the tree.
type Aggregator struct {
	cfg   config.Config
	fs    fsys.FS
	cache *lru.Cache[string, entry.Aggregate]
}

// NewAggregator creates an aggregator with room for size memoized entries.
func NewAggregator(cfg config.Config, fs fsys.FS, size int) (*Aggregator, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, entry.Aggregate](size)
	if err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg, fs: fs, cache: cache}, nil
}

// Aggregate returns the recursive totals under path. Unreadable entries
// contribute zero.
func (a *Aggregator) Aggregate(path string) entry.Aggregate {
	path = pathutil.Normalize(path)
	if agg, ok := a.cache.Get(path); ok {
		return agg
	}
	agg := a.compute(path)
	a.cache.Add(path, agg)
	return agg
}

// CountDocuments returns the number of documents under path.
func (a *Aggregator) CountDocuments(path string) int64 {
	return a.Aggregate(path).Documents
}

// ContentVolume returns the summed content volume of documents under path.
func (a *Aggregator) ContentVolume(path string) int64 {
	return a.Aggregate(path).Volume
}

// ByteSize returns the size of every file under path, raw and formatted.
func (a *Aggregator) ByteSize(path string) (int64, string) {
	n := a.Aggregate(path).Bytes
	return n, metrics.FormatSize(n)
}

func (a *Aggregator) compute(path string) entry.Aggregate {
	var agg entry.Aggregate

	entries, err := a.fs.ListEntries(path)
	if err != nil {
		return agg
	}

	for _, e := range entries {
		childPath := filepath.Join(path, e.Name)
		if a.cfg.ShouldExclude(childPath) {
			continue
		}

		if e.IsDir {
			agg = agg.Add(a.Aggregate(childPath))
			continue
		}

		if a.cfg.IsDocument(e.Name) {
			m := metrics.MeasureFile(a.fs, childPath)
			agg.Documents++
			agg.Volume += m.Volume
			agg.Bytes += m.Size
			continue
		}

		if size, err := a.fs.ByteSize(childPath); err == nil {
			agg.Bytes += size
		}
	}

	return agg
}
