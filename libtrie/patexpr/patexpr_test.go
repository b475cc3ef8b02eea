package patexpr

import (
	"testing"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdjacency(t *testing.T) {
	tests := []struct {
		expr string
		kind gotrie.GraphKind
		adj  string
	}{
		{"1-2-3", gotrie.Undirected, "010101010"},
		{"1-2-3-1", gotrie.Undirected, "011101110"},
		{"1>2>3", gotrie.Directed, "010001000"},
		{"1>2>3,1<3", gotrie.Directed, "010001100"},
		{"1-2", gotrie.Directed, "0110"},
		{"2-1, 3>1", gotrie.Undirected, "011100100"},
	}
	for _, tt := range tests {
		adj, k, err := ParseAdjacency(tt.expr, tt.kind)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.adj, adj, tt.expr)
		assert.Equal(t, len(tt.adj), k*k, tt.expr)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("1-", gotrie.Undirected)
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))

	_, err = Parse("1-0", gotrie.Undirected)
	assert.True(t, errors.Is(err, gotrie.ErrBadVtxID))

	_, err = Parse("1-2-2", gotrie.Undirected)
	assert.True(t, errors.Is(err, gotrie.ErrBadEdge))
}
