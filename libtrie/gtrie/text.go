package gtrie

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// WriteText writes a human readable dump of the index, one node per line, indented by depth:
//
//	[out][in] |ancestor conditions|...+|local conditions|... isGraph
func (t *Trie) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	t.root.walk(func(node *Node) {
		bw.WriteString(node.describe())
		bw.WriteByte('\n')
	})
	return bw.Flush()
}

func (node *Node) describe() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("   ", node.Depth))

	b.WriteByte('[')
	for _, v := range node.Out {
		b.WriteByte(bit(v))
	}
	b.WriteString("][")
	for _, v := range node.In {
		b.WriteByte(bit(v))
	}
	b.WriteString("] ")

	if node.CondOK {
		b.WriteString("{}+{}")
	} else {
		for _, conds := range node.Cond {
			b.WriteByte('|')
			for i, c := range conds {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strconv.Itoa(c.A))
				b.WriteByte('<')
				b.WriteString(strconv.Itoa(c.B))
			}
			b.WriteByte('|')
		}
		b.WriteByte('+')
		for _, below := range node.LocalConditions() {
			b.WriteByte('|')
			if len(below) == 0 {
				b.WriteString("{}")
			} else {
				for i, a := range below {
					if i > 0 {
						b.WriteByte(',')
					}
					b.WriteString(strconv.Itoa(a))
				}
				b.WriteByte('<')
				b.WriteString(strconv.Itoa(node.Depth - 1))
			}
			b.WriteByte('|')
		}
	}

	if node.IsGraph {
		b.WriteString(" isGraph")
	}
	return b.String()
}
