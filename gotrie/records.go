package gotrie

import (
	"github.com/gogo/protobuf/proto"
)

// CatalogState is stored once per catalog and tracks its format version and counters.
type CatalogState struct {
	MajorVers  uint32 `protobuf:"varint,1,opt,name=major_vers,json=majorVers,proto3" json:"major_vers,omitempty"`
	MinorVers  uint32 `protobuf:"varint,2,opt,name=minor_vers,json=minorVers,proto3" json:"minor_vers,omitempty"`
	NumRuns    uint64 `protobuf:"varint,3,opt,name=num_runs,json=numRuns,proto3" json:"num_runs,omitempty"`
	NumIndexes uint64 `protobuf:"varint,4,opt,name=num_indexes,json=numIndexes,proto3" json:"num_indexes,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

// CensusRecord is the persisted outcome of one motif scan.
type CensusRecord struct {
	RunID        string           `protobuf:"bytes,1,opt,name=run_id,json=runId,proto3" json:"run_id,omitempty"`
	GraphName    string           `protobuf:"bytes,2,opt,name=graph_name,json=graphName,proto3" json:"graph_name,omitempty"`
	Method       string           `protobuf:"bytes,3,opt,name=method,proto3" json:"method,omitempty"`
	Directed     bool             `protobuf:"varint,4,opt,name=directed,proto3" json:"directed,omitempty"`
	PatternSize  int32            `protobuf:"varint,5,opt,name=pattern_size,json=patternSize,proto3" json:"pattern_size,omitempty"`
	NumNodes     int64            `protobuf:"varint,6,opt,name=num_nodes,json=numNodes,proto3" json:"num_nodes,omitempty"`
	NumEdges     int64            `protobuf:"varint,7,opt,name=num_edges,json=numEdges,proto3" json:"num_edges,omitempty"`
	NumRandom    int32            `protobuf:"varint,8,opt,name=num_random,json=numRandom,proto3" json:"num_random,omitempty"`
	StartedAt    int64            `protobuf:"varint,9,opt,name=started_at,json=startedAt,proto3" json:"started_at,omitempty"`
	ElapsedNanos int64            `protobuf:"varint,10,opt,name=elapsed_nanos,json=elapsedNanos,proto3" json:"elapsed_nanos,omitempty"`
	Patterns     []*PatternRecord `protobuf:"bytes,11,rep,name=patterns,proto3" json:"patterns,omitempty"`
}

func (m *CensusRecord) Reset()         { *m = CensusRecord{} }
func (m *CensusRecord) String() string { return proto.CompactTextString(m) }
func (*CensusRecord) ProtoMessage()    {}

// PatternRecord is one row of a CensusRecord.
type PatternRecord struct {
	Adjacency    string  `protobuf:"bytes,1,opt,name=adjacency,proto3" json:"adjacency,omitempty"`
	Frequency    int64   `protobuf:"varint,2,opt,name=frequency,proto3" json:"frequency,omitempty"`
	RandomMean   float64 `protobuf:"fixed64,3,opt,name=random_mean,json=randomMean,proto3" json:"random_mean,omitempty"`
	RandomStdDev float64 `protobuf:"fixed64,4,opt,name=random_std_dev,json=randomStdDev,proto3" json:"random_std_dev,omitempty"`
	ZScore       float64 `protobuf:"fixed64,5,opt,name=z_score,json=zScore,proto3" json:"z_score,omitempty"`
	ZDefined     bool    `protobuf:"varint,6,opt,name=z_defined,json=zDefined,proto3" json:"z_defined,omitempty"`
}

func (m *PatternRecord) Reset()         { *m = PatternRecord{} }
func (m *PatternRecord) String() string { return proto.CompactTextString(m) }
func (*PatternRecord) ProtoMessage()    {}
