package gotrie

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (

	// MinPatternSize is the smallest motif size a census may be asked for.
	MinPatternSize = 3

	// MaxPatternSize is the largest motif size a census may be asked for.
	MaxPatternSize = 50

	// IndexFormatHeader is the first line of every serialized pattern index.
	IndexFormatHeader = "GTRIEFORMAT VERSION 1"
)

// GraphKind says whether edge direction is significant.
type GraphKind int32

const (
	Directed GraphKind = iota
	Undirected
)

func (kind GraphKind) String() string {
	if kind == Undirected {
		return "undirected"
	}
	return "directed"
}

// HostGraph is the read-only contract the census engine and the symmetry deriver depend on.
//
// Vertices are 0-based.  For an undirected graph every edge is stored in both directions.
type HostGraph interface {
	Kind() GraphKind
	NumNodes() int
	NumEdges() int

	// HasEdge reports if there is an edge a -> b.
	HasEdge(a, b int) bool

	// IsConnected reports if there is an edge in either direction between a and b.
	IsConnected(a, b int) bool

	// NumNeighbours returns the number of distinct vertices connected to a.
	NumNeighbours(a int) int

	// Neighbours returns the distinct vertices connected to a in ascending order.
	// The returned slice is owned by the graph and must not be modified.
	Neighbours(a int) []int
}

// MatrixGraph is implemented by a HostGraph that can expose a dense adjacency matrix,
// allowing the census to skip interface dispatch on its hottest check.
type MatrixGraph interface {
	HostGraph

	// AdjacencyMatrix returns rows where [a][b] is true iff there is an edge a -> b.
	AdjacencyMatrix() [][]bool
}

// Condition requires that the host vertex assigned to pattern position A is numerically
// smaller than the one assigned to position B.
type Condition struct {
	A, B int
}

// Conditions is a conjunction of symmetry-breaking conditions, sorted by (A, B).
type Conditions []Condition

// Contains reports if cond is in the sorted set.
func (conds Conditions) Contains(cond Condition) bool {
	for _, ci := range conds {
		if ci == cond {
			return true
		}
	}
	return false
}

// Includes reports if every condition of sub also appears in conds.  Both must be sorted.
func (conds Conditions) Includes(sub Conditions) bool {
	j := 0
	for _, ci := range conds {
		if j == len(sub) {
			break
		}
		if ci == sub[j] {
			j++
		}
	}
	return j == len(sub)
}

// FreqMap maps a canonical adjacency string to an occurrence count.
type FreqMap map[string]int64

// Total returns the sum of all counts.
func (fm FreqMap) Total() int64 {
	total := int64(0)
	for _, freq := range fm {
		total += freq
	}
	return total
}

// Method selects how the subgraph census of the original network is computed.
type Method int32

const (
	MethodESU Method = iota
	MethodGTrie
	MethodSubgraphs
)

var methodNames = []string{"esu", "gtrie", "subgraphs"}

func (m Method) String() string {
	if m >= 0 && int(m) < len(methodNames) {
		return methodNames[m]
	}
	return "unknown"
}

func ParseMethod(name string) (Method, error) {
	for i, ni := range methodNames {
		if strings.EqualFold(ni, name) {
			return Method(i), nil
		}
	}
	return 0, errors.Wrapf(ErrBadMethod, "'%s'", name)
}

// InputFormat selects how an edge list file is read.
type InputFormat int32

const (
	// FormatSimple lines are "a b"
	FormatSimple InputFormat = iota

	// FormatSimpleWeight lines are "a b w" where w is ignored
	FormatSimpleWeight
)

func ParseInputFormat(name string) (InputFormat, error) {
	switch strings.ToLower(name) {
	case "simple":
		return FormatSimple, nil
	case "", "simple_weight", "simple_weighted":
		return FormatSimpleWeight, nil
	}
	return 0, errors.Wrapf(ErrBadFormat, "'%s'", name)
}

// Backing selects the HostGraph implementation a network is loaded into.
type Backing int32

const (
	BackingMatrix Backing = iota
	BackingSparse
)

func ParseBacking(name string) (Backing, error) {
	switch strings.ToLower(name) {
	case "", "matrix":
		return BackingMatrix, nil
	case "sparse":
		return BackingSparse, nil
	}
	return 0, errors.Wrapf(ErrBadBacking, "'%s'", name)
}

// CensusOpts specifies params for a census pass.
type CensusOpts struct {

	// If non-nil, every occurrence found is written as a line to this writer.
	Occurrences io.Writer
}

// RandomOpts specifies how the randomized networks used for significance are generated.
type RandomOpts struct {
	Count     int   `yaml:"count"`
	Seed      int64 `yaml:"seed"`
	Exchanges int   `yaml:"exchanges"`
	Tries     int   `yaml:"tries"`
}

// ScanOpts specifies params for a complete motif scan or an index creation run.
type ScanOpts struct {
	GraphFile       string     `yaml:"graph"`
	Directed        bool       `yaml:"directed"`
	Format          string     `yaml:"format"`
	Backing         string     `yaml:"backing"`
	Size            int        `yaml:"size"`
	Method          string     `yaml:"method"`
	IndexFile       string     `yaml:"index"`
	PatternsFile    string     `yaml:"patterns"`
	OutputFile      string     `yaml:"output"`
	OccurrencesFile string     `yaml:"occurrences"`
	SampleProbs     []float64  `yaml:"sample,omitempty"`
	Random          RandomOpts `yaml:"random"`
	CatalogPath     string     `yaml:"catalog"`
	Workers         int        `yaml:"workers"`
}

// Kind returns the GraphKind implied by the Directed flag.
func (opts *ScanOpts) Kind() GraphKind {
	if opts.Directed {
		return Directed
	}
	return Undirected
}

// CatalogOpts specifies params for opening a census Catalog.
type CatalogOpts struct {
	ReadOnly bool

	// If empty, the catalog lives only in memory.
	DbPathName string
}

// OnRecordHit receives records emitted by Catalog.SelectCensus.
type OnRecordHit chan<- *CensusRecord

// Catalog persists serialized pattern indexes and the results of census runs.
type Catalog interface {

	// PutIndex stores a serialized pattern index under the given name, replacing any existing one.
	PutIndex(name string, index []byte) error

	// GetIndex returns a copy of the serialized index stored under the given name.
	GetIndex(name string) ([]byte, error)

	// PutCensus assigns a run ID to rec (if it has none), stores it, and returns the run ID.
	PutCensus(rec *CensusRecord) (string, error)

	// GetCensus loads the record with the given run ID.
	GetCensus(runID string) (*CensusRecord, error)

	// SelectCensus sends every record for the given graph name (all records if empty) to onHit.
	SelectCensus(graphName string, onHit OnRecordHit) error

	// NumCensusRuns returns how many census records have been stored.
	NumCensusRuns() uint64

	IsReadOnly() bool

	Close() error
}

// CatalogContext tracks open catalogs so that they all close when the context closes.
type CatalogContext interface {
	AttachCatalog(cat Catalog)
	DetachCatalog(cat Catalog)

	Closing() <-chan struct{}
	Done() <-chan struct{}
	Close()
}
