package gotrie

import "errors"

// Errors
var (
	ErrBadPatternSize  = errors.New("pattern size out of range")
	ErrBadAdjacency    = errors.New("bad adjacency string")
	ErrDisconnected    = errors.New("pattern graph is not connected")
	ErrMissingPath     = errors.New("missing file path")
	ErrBadMethod       = errors.New("unknown census method")
	ErrBadFormat       = errors.New("unknown graph input format")
	ErrBadBacking      = errors.New("unknown graph backing")
	ErrBadProbability  = errors.New("bad sampling probability")
	ErrBadRandomParam  = errors.New("bad random network param")
	ErrBadEdge         = errors.New("bad edge entry")
	ErrBadVtxID        = errors.New("bad vertex ID")
	ErrNilGraph        = errors.New("nil graph")
	ErrIndexHeader     = errors.New("index file header mismatch")
	ErrIndexCorrupt    = errors.New("index file is corrupt")
	ErrIndexEncode     = errors.New("index node cannot be encoded")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrRecordNotFound  = errors.New("census record not found")
	ErrIndexNotFound   = errors.New("index not found")
)
