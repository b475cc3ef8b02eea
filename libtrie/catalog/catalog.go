package catalog

import (
	"runtime"
	"sync"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	kIndexPrefix, IndexName                     => GTRIEFORMAT blob
	kCensusPrefix, GraphName, NUL, RunID        => CensusRecord
	kRunPrefix, RunID                           => census key (the entry above)

Census records for one graph are contiguous so SelectCensus is a single prefix walk.

***/

const (
	kIndexPrefix  = byte(0x01)
	kCensusPrefix = byte(0x02)
	kRunPrefix    = byte(0x03)
)

const (
	catalogMajorVers = 2026
	catalogMinorVers = 1
)

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

type catalog struct {
	ctx        gotrie.CatalogContext
	readOnly   bool
	mu         sync.Mutex
	stateDirty bool
	state      gotrie.CatalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) the catalog at opts.DbPathName and attaches it to ctx.
// An empty path opens a catalog that lives only in memory.
func OpenCatalog(ctx gotrie.CatalogContext, opts gotrie.CatalogOpts) (gotrie.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gotrie.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog '%s'", opts.DbPathName)
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = catalogMajorVers
		cat.state.MinorVers = catalogMinorVers
	}

	if err == nil && (cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers) {
		err = errors.Wrapf(gotrie.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return proto.Unmarshal(val, &cat.state)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := proto.Marshal(&cat.state)
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	var err error
	if cat.db != nil {
		err = cat.flushState()
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumCensusRuns() uint64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return cat.state.NumRuns
}

func (cat *catalog) checkWritable() error {
	if cat.readOnly {
		return errors.Wrap(gotrie.ErrBadCatalogParam, "catalog is read-only")
	}
	return nil
}

func indexKey(name string) []byte {
	key := make([]byte, 0, 1+len(name))
	key = append(key, kIndexPrefix)
	return append(key, name...)
}

func censusPrefix(graphName string) []byte {
	key := make([]byte, 0, 2+len(graphName))
	key = append(key, kCensusPrefix)
	key = append(key, graphName...)
	return append(key, 0)
}

func runKey(runID string) []byte {
	key := make([]byte, 0, 1+len(runID))
	key = append(key, kRunPrefix)
	return append(key, runID...)
}

func (cat *catalog) PutIndex(name string, index []byte) error {
	if err := cat.checkWritable(); err != nil {
		return err
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	key := indexKey(name)
	return cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			cat.state.NumIndexes++
			cat.stateDirty = true
		} else if err != nil {
			return err
		}
		return txn.Set(key, append([]byte{}, index...))
	})
}

func (cat *catalog) GetIndex(name string) ([]byte, error) {
	var index []byte
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(name))
		if err != nil {
			return err
		}
		index, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		err = errors.Wrapf(gotrie.ErrIndexNotFound, "'%s'", name)
	}
	return index, err
}

func (cat *catalog) PutCensus(rec *gotrie.CensusRecord) (string, error) {
	if err := cat.checkWritable(); err != nil {
		return "", err
	}
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}

	val, err := proto.Marshal(rec)
	if err != nil {
		return "", err
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	recKey := append(censusPrefix(rec.GraphName), rec.RunID...)
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(runKey(rec.RunID))
		if err == badger.ErrKeyNotFound {
			cat.state.NumRuns++
			cat.stateDirty = true
		} else if err != nil {
			return err
		}
		if err = txn.Set(recKey, val); err != nil {
			return err
		}
		return txn.Set(runKey(rec.RunID), recKey)
	})
	return rec.RunID, err
}

func (cat *catalog) GetCensus(runID string) (*gotrie.CensusRecord, error) {
	rec := &gotrie.CensusRecord{}
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if err != nil {
			return err
		}
		recKey, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if item, err = txn.Get(recKey); err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return proto.Unmarshal(val, rec)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(gotrie.ErrRecordNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SelectCensus sends each matching record to onHit in key order.  onHit is not closed.
func (cat *catalog) SelectCensus(graphName string, onHit gotrie.OnRecordHit) error {
	prefix := []byte{kCensusPrefix}
	if graphName != "" {
		prefix = censusPrefix(graphName)
	}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         prefix,
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		rec := &gotrie.CensusRecord{}
		err := item.Value(func(val []byte) error {
			return proto.Unmarshal(val, rec)
		})
		if err != nil {
			return errors.Wrapf(err, "decoding census record '%s'", item.Key())
		}
		onHit <- rec
	}
	return nil
}
