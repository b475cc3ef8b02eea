package gotrie

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditions(t *testing.T) {
	conds := Conditions{{0, 1}, {0, 2}, {1, 2}}
	assert.True(t, conds.Contains(Condition{0, 2}))
	assert.False(t, conds.Contains(Condition{2, 0}))

	assert.True(t, conds.Includes(Conditions{{0, 1}, {1, 2}}))
	assert.True(t, conds.Includes(nil))
	assert.False(t, conds.Includes(Conditions{{0, 1}, {0, 3}}))
	assert.False(t, Conditions{{0, 1}}.Includes(conds))
}

func TestParseNames(t *testing.T) {
	m, err := ParseMethod("GTrie")
	require.NoError(t, err)
	assert.Equal(t, MethodGTrie, m)
	assert.Equal(t, "subgraphs", MethodSubgraphs.String())
	_, err = ParseMethod("nauty")
	assert.True(t, errors.Is(err, ErrBadMethod))

	f, err := ParseInputFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSimpleWeight, f)
	_, err = ParseInputFormat("csv")
	assert.True(t, errors.Is(err, ErrBadFormat))

	b, err := ParseBacking("sparse")
	require.NoError(t, err)
	assert.Equal(t, BackingSparse, b)
	_, err = ParseBacking("dense")
	assert.True(t, errors.Is(err, ErrBadBacking))

	assert.Equal(t, int64(6), FreqMap{"a": 2, "b": 4}.Total())
}

func TestValidateScanOpts(t *testing.T) {
	opts := DefaultScanOpts()
	opts.GraphFile = "net.txt"
	opts.Size = 3
	require.NoError(t, opts.Validate())

	bad := opts
	bad.Size = 51
	assert.True(t, errors.Is(bad.Validate(), ErrBadPatternSize))

	bad = opts
	bad.GraphFile = ""
	assert.True(t, errors.Is(bad.Validate(), ErrMissingPath))

	bad = opts
	bad.Method = "subgraphs"
	assert.True(t, errors.Is(bad.Validate(), ErrMissingPath))

	bad = opts
	bad.SampleProbs = []float64{1, 0.5}
	assert.True(t, errors.Is(bad.Validate(), ErrBadProbability))
	bad.SampleProbs = []float64{1, 0.5, 0}
	assert.True(t, errors.Is(bad.Validate(), ErrBadProbability))

	bad = opts
	bad.Random.Count = 5
	bad.Random.Tries = 0
	assert.True(t, errors.Is(bad.Validate(), ErrBadRandomParam))

	create := DefaultScanOpts()
	create.Size = 4
	create.PatternsFile = "tetrads.txt"
	require.NoError(t, create.ValidateCreate())
	create.OutputFile = ""
	assert.True(t, errors.Is(create.ValidateCreate(), ErrMissingPath))
}

type stubCatalog struct {
	Catalog
	ctx    CatalogContext
	closed chan struct{}
}

func (cat *stubCatalog) Close() error {
	cat.ctx.DetachCatalog(cat)
	close(cat.closed)
	return nil
}

func TestCatalogContext(t *testing.T) {
	ctx := NewCatalogContext()

	cats := make([]*stubCatalog, 3)
	for i := range cats {
		cats[i] = &stubCatalog{ctx: ctx, closed: make(chan struct{})}
		ctx.AttachCatalog(cats[i])
		ctx.AttachCatalog(cats[i])
	}

	// A catalog closed early detaches itself and is not closed again
	require.NoError(t, cats[0].Close())

	select {
	case <-ctx.Done():
		t.Fatal("context done before Close")
	case <-time.After(10 * time.Millisecond):
	}

	ctx.Close()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context never finished closing")
	}
	for _, cat := range cats {
		<-cat.closed
	}
	assert.NotNil(t, ctx.Closing())
}
