package catalog

import (
	"github.com/2x3systems/gotrie/libtrie/canon"
	"github.com/dgraph-io/badger/v3"
)

// CanonicSet allows adding patterns and returning if an isomorphic pattern has already been added.
type CanonicSet interface {

	// TryAdd adds the canonical form of the given k-vertex adjacency string if it is not already present.
	//
	// If an isomorphic pattern is already in this CanonicSet, this call has no effect and TryAdd() returns false.
	// Otherwise the pattern is added and TryAdd() returns true.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(adj string, k int) (bool, error)

	// Close removes all previously added items from this set.
	Close()
}

// NewCanonicSet returns an empty in-memory CanonicSet.
func NewCanonicSet() CanonicSet {
	return &canonicSet{}
}

type canonicSet struct {
	lsmSet
}

func (cs *canonicSet) TryAdd(adj string, k int) (bool, error) {
	form, err := canon.Canonicalize(adj, k)
	if err != nil {
		return false, err
	}
	return cs.tryAdd([]byte(form))
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() error {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			return err
		}
	}
	return nil
}

func (set *lsmSet) tryAdd(key []byte) (bool, error) {
	if err := set.autoOpen(); err != nil {
		return false, err
	}

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}
	if err == nil && added {
		err = txn.Commit()
	}
	if err != nil {
		return false, err
	}
	return added, nil
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
