package gtrie

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
)

/***

Index file format:

	"GTRIEFORMAT VERSION 1" '\n'
	then one line per node, depth first from the root:

	flags       byte: ' ' + (nbytes << 1 | isGraph)
	numChildren nbytes digits base 95, least significant first
	out         ceil(depth/6) bytes (at least 1), 6 bits each: ' ' + bits
	in          same as out
	numConds    ' ' + count (0 when the node is unconditional)
	conds       per set: (' '+1+A, ' '+1+B)* then ' '
	'\n'

Every byte of a node line is printable, so a line never contains '\n' except its terminator.

***/

const (
	baseFirst  = ' '
	baseFormat = 95
	baseBits   = 6
	maxCount   = baseFormat - 1
)

// WriteTo serializes the index to w.
func (t *Trie) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	n, err := bw.WriteString(gotrie.IndexFormatHeader + "\n")
	total := int64(n)
	if err != nil {
		return total, err
	}

	var line []byte
	var encode func(node *Node) error
	encode = func(node *Node) error {
		var err error
		line, err = node.appendEncoding(line[:0])
		if err != nil {
			return err
		}
		n, err := bw.Write(line)
		total += int64(n)
		if err != nil {
			return err
		}
		for _, child := range node.Children {
			if err = encode(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err = encode(t.root); err != nil {
		return total, err
	}
	return total, bw.Flush()
}

func appendBits(dst []byte, vals []bool) []byte {
	acc, nbits := byte(0), 0
	for _, v := range vals {
		if nbits == baseBits {
			dst = append(dst, baseFirst+acc)
			acc, nbits = 0, 0
		}
		if v {
			acc |= 1 << nbits
		}
		nbits++
	}
	return append(dst, baseFirst+acc)
}

func (node *Node) appendEncoding(dst []byte) ([]byte, error) {
	var digits []byte
	for n := len(node.Children); n > 0; n /= baseFormat {
		digits = append(digits, baseFirst+byte(n%baseFormat))
	}
	flags := byte(len(digits) << 1)
	if node.IsGraph {
		flags |= 1
	}
	dst = append(dst, baseFirst+flags)
	dst = append(dst, digits...)
	dst = appendBits(dst, node.Out)
	dst = appendBits(dst, node.In)

	if node.CondOK || len(node.Cond) == 0 {
		dst = append(dst, baseFirst)
	} else {
		if len(node.Cond) > maxCount {
			return dst, errors.Wrapf(gotrie.ErrIndexEncode, "%d condition sets at depth %d", len(node.Cond), node.Depth)
		}
		dst = append(dst, baseFirst+byte(len(node.Cond)))
		for _, conds := range node.Cond {
			for _, c := range conds {
				if c.A+1 > maxCount || c.B+1 > maxCount {
					return dst, errors.Wrapf(gotrie.ErrIndexEncode, "condition %d<%d", c.A, c.B)
				}
				dst = append(dst, baseFirst+1+byte(c.A), baseFirst+1+byte(c.B))
			}
			dst = append(dst, baseFirst)
		}
	}
	return append(dst, '\n'), nil
}

// Decode reads an index written by WriteTo.  Any structural inconsistency is a hard error.
func Decode(r io.Reader) (*Trie, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if string(bytes.TrimRight([]byte(header), "\r\n")) != gotrie.IndexFormatHeader {
		return nil, errors.Wrapf(gotrie.ErrIndexHeader, "got %q", header)
	}

	dec := decoder{
		br:     br,
		offset: int64(len(header)),
	}
	t := &Trie{}
	t.root, err = dec.readNode(0)
	if err != nil {
		return nil, err
	}
	if _, err = dec.br.ReadByte(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(gotrie.ErrIndexCorrupt, "trailing data at offset %d", dec.offset+int64(len(dec.line)))
	}
	t.root.CondOK = true
	return t, nil
}

type decoder struct {
	br     *bufio.Reader
	offset int64 // of the current line
	line   []byte
	pos    int
	depth  int
}

func (dec *decoder) corrupt(format string, args ...interface{}) error {
	err := errors.Wrapf(gotrie.ErrIndexCorrupt, format, args...)
	return errors.Wrapf(err, "depth %d, offset %d", dec.depth, dec.offset+int64(dec.pos))
}

// next returns the value of the next byte of the current line.
func (dec *decoder) next() (int, error) {
	if dec.pos >= len(dec.line) || dec.line[dec.pos] == '\n' {
		return 0, dec.corrupt("line ends early")
	}
	c := dec.line[dec.pos]
	dec.pos++
	if c < baseFirst || c >= baseFirst+baseFormat {
		return 0, dec.corrupt("byte %q out of range", c)
	}
	return int(c - baseFirst), nil
}

func (dec *decoder) readBits(dst []bool) error {
	acc, err := dec.next()
	if err != nil {
		return err
	}
	nbits := 0
	for i := range dst {
		if nbits == baseBits {
			if acc, err = dec.next(); err != nil {
				return err
			}
			nbits = 0
		}
		dst[i] = acc&(1<<nbits) != 0
		nbits++
	}
	return nil
}

func (dec *decoder) readNode(depth int) (*Node, error) {
	if depth > gotrie.MaxPatternSize {
		return nil, errors.Wrapf(gotrie.ErrIndexCorrupt, "depth %d exceeds %d", depth, gotrie.MaxPatternSize)
	}

	dec.offset += int64(len(dec.line))
	line, err := dec.br.ReadBytes('\n')
	if err == io.EOF {
		err = nil
		if len(line) == 0 {
			return nil, errors.Wrapf(gotrie.ErrIndexCorrupt, "missing node at depth %d", depth)
		}
	}
	if err != nil {
		return nil, err
	}
	dec.line = line
	dec.pos = 0
	dec.depth = depth

	node := &Node{
		Depth: depth,
		Out:   make([]bool, depth),
		In:    make([]bool, depth),
	}

	flags, err := dec.next()
	if err != nil {
		return nil, err
	}
	node.IsGraph = flags&1 != 0
	if flags>>1 > 4 {
		return nil, dec.corrupt("child count spans %d digits", flags>>1)
	}
	numChildren := 0
	for i, scale := 0, 1; i < flags>>1; i, scale = i+1, scale*baseFormat {
		digit, err := dec.next()
		if err != nil {
			return nil, err
		}
		numChildren += digit * scale
	}

	if err = dec.readBits(node.Out); err != nil {
		return nil, err
	}
	if err = dec.readBits(node.In); err != nil {
		return nil, err
	}

	numConds, err := dec.next()
	if err != nil {
		return nil, err
	}
	node.CondOK = numConds == 0
	for i := 0; i < numConds; i++ {
		var conds gotrie.Conditions
		for {
			a, err := dec.next()
			if err != nil {
				return nil, err
			}
			if a == 0 {
				break
			}
			b, err := dec.next()
			if err != nil {
				return nil, err
			}
			if b == 0 || a > depth || b > depth {
				return nil, dec.corrupt("bad condition %d<%d", a-1, b-1)
			}
			conds = append(conds, gotrie.Condition{A: a - 1, B: b - 1})
		}
		node.Cond = append(node.Cond, conds)
	}

	if dec.pos >= len(dec.line) || dec.line[dec.pos] != '\n' {
		return nil, dec.corrupt("expected end of line")
	}

	for i := 0; i < depth; i++ {
		if node.Out[i] || node.In[i] {
			node.Conn = append(node.Conn, i)
		}
	}
	node.tallyEdges()

	for i := 0; i < numChildren; i++ {
		child, err := dec.readNode(depth + 1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// WriteFile serializes the index to the file at pathname.
func (t *Trie) WriteFile(pathname string) error {
	if pathname == "" {
		return errors.Wrap(gotrie.ErrMissingPath, "index file")
	}
	file, err := os.Create(pathname)
	if err != nil {
		return errors.Wrapf(err, "creating index '%s'", pathname)
	}
	if _, err = t.WriteTo(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "writing index '%s'", pathname)
	}
	return file.Close()
}

// ReadFile loads the index at pathname.
func ReadFile(pathname string) (*Trie, error) {
	if pathname == "" {
		return nil, errors.Wrap(gotrie.ErrMissingPath, "index file")
	}
	file, err := os.Open(pathname)
	if err != nil {
		return nil, errors.Wrapf(err, "opening index '%s'", pathname)
	}
	defer file.Close()

	t, err := Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading index '%s'", pathname)
	}
	return t, nil
}

// MarshalBinary returns the serialized index.
func (t *Trie) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an index serialized by MarshalBinary.
func Unmarshal(data []byte) (*Trie, error) {
	return Decode(bytes.NewReader(data))
}
