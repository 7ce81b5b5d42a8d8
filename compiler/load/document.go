// Package load reads an API description from disk into an order-preserving
// document tree. YAML and JSON inputs are both decoded with yaml.v3, since
// JSON is a subset of YAML.
package load

import (
	"errors"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/internal/debug"
)

// Document is a loaded source document.
type Document struct {
	// Path is the file the document was read from. Empty for in-memory input.
	Path string
	// Root is the top-level node. It is never nil; an empty document
	// has a null root.
	Root *Node
}

// Load reads and decodes the document at path from fsys.
func Load(fsys afero.Fs, path string) (*Document, error) {
	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, specgen.NewInputError(path, nil)
		}
		return nil, specgen.NewInputError(path, err)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, specgen.NewInputError(path, err)
	}
	debug.Debug("document read", "path", path, "bytes", len(data))
	return Parse(path, data)
}

var lineRE = regexp.MustCompile(`line (\d+)`)

// Parse decodes data as YAML or JSON. The path is used in error messages only.
func Parse(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		ferr := &specgen.FormatError{Path: path, Cause: err}
		if m := lineRE.FindStringSubmatch(err.Error()); m != nil {
			ferr.Line, _ = strconv.Atoi(m[1])
		}
		return nil, ferr
	}
	doc := &Document{Path: path, Root: &Node{ptr: "#"}}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		doc.Root.n = root.Content[0]
	}
	return doc, nil
}

// Kind classifies a node.
type Kind uint8

// Node kinds.
const (
	Null Kind = iota
	Scalar
	Map
	Seq
)

// Node is a read-only view over a decoded node. All methods are safe on a
// nil receiver, which behaves as a missing value.
type Node struct {
	n   *yaml.Node
	ptr string
}

// Pair is a key/value entry of a map node.
type Pair struct {
	Key   string
	Value *Node
}

func (n *Node) node() *yaml.Node {
	if n == nil || n.n == nil {
		return nil
	}
	y := n.n
	for y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}
	return y
}

// Kind returns the kind of the node.
func (n *Node) Kind() Kind {
	y := n.node()
	switch {
	case y == nil:
		return Null
	case y.Kind == yaml.MappingNode:
		return Map
	case y.Kind == yaml.SequenceNode:
		return Seq
	case y.Kind == yaml.ScalarNode && y.Tag == "!!null":
		return Null
	case y.Kind == yaml.ScalarNode:
		return Scalar
	default:
		return Null
	}
}

// IsMap reports whether n is a mapping.
func (n *Node) IsMap() bool { return n.Kind() == Map }

// Pointer returns the JSON pointer of n within its document, e.g.
// "#/paths/~1pets/get".
func (n *Node) Pointer() string {
	if n == nil {
		return ""
	}
	return n.ptr
}

// Line returns the 1-based source line of n, or zero.
func (n *Node) Line() int {
	if y := n.node(); y != nil {
		return y.Line
	}
	return 0
}

// Pairs returns the entries of a map node in declaration order. Entries
// with a non-scalar key are skipped.
func (n *Node) Pairs() []Pair {
	y := n.node()
	if y == nil || y.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([]Pair, 0, len(y.Content)/2)
	for i := 0; i+1 < len(y.Content); i += 2 {
		k := y.Content[i]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		pairs = append(pairs, Pair{Key: k.Value, Value: n.child(k.Value, y.Content[i+1])})
	}
	return pairs
}

// Get returns the value under key, or nil if n is not a map or the key is
// absent. When a key is repeated the last occurrence wins.
func (n *Node) Get(key string) *Node {
	y := n.node()
	if y == nil || y.Kind != yaml.MappingNode {
		return nil
	}
	for i := len(y.Content) - 2; i >= 0; i -= 2 {
		if k := y.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return n.child(key, y.Content[i+1])
		}
	}
	return nil
}

// At walks a sequence of map keys.
func (n *Node) At(keys ...string) *Node {
	for _, k := range keys {
		n = n.Get(k)
	}
	return n
}

// Has reports whether key is present in a map node.
func (n *Node) Has(key string) bool { return n.Get(key) != nil }

// Items returns the elements of a sequence node.
func (n *Node) Items() []*Node {
	y := n.node()
	if y == nil || y.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*Node, len(y.Content))
	for i, c := range y.Content {
		items[i] = &Node{n: c, ptr: n.ptr + "/" + strconv.Itoa(i)}
	}
	return items
}

// Str returns the scalar value of n, or "" for non-scalars.
func (n *Node) Str() string {
	if n.Kind() != Scalar {
		return ""
	}
	return n.node().Value
}

// Bool returns the boolean value of a scalar node. Anything that is not a
// YAML true value is false.
func (n *Node) Bool() bool {
	if n.Kind() != Scalar {
		return false
	}
	var b bool
	if err := n.node().Decode(&b); err != nil {
		return false
	}
	return b
}

// Strings returns the scalar values of a sequence node, or the single value
// of a scalar node.
func (n *Node) Strings() []string {
	switch n.Kind() {
	case Scalar:
		return []string{n.Str()}
	case Seq:
		var out []string
		for _, it := range n.Items() {
			if it.Kind() == Scalar {
				out = append(out, it.Str())
			}
		}
		return out
	default:
		return nil
	}
}

// Decode decodes n into v.
func (n *Node) Decode(v any) error {
	y := n.node()
	if y == nil {
		return nil
	}
	return y.Decode(v)
}

func (n *Node) child(key string, y *yaml.Node) *Node {
	return &Node{n: y, ptr: n.ptr + "/" + escapePointer(key)}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }

// Resolve returns the node addressed by a local JSON pointer such as
// "#/components/schemas/Pet". It reports false for non-local or dangling
// pointers.
func (d *Document) Resolve(ref string) (*Node, bool) {
	rest, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return nil, false
	}
	n := d.Root
	if rest == "" {
		return n, true
	}
	if !strings.HasPrefix(rest, "/") {
		return nil, false
	}
	for _, tok := range strings.Split(rest[1:], "/") {
		tok = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
		switch n.Kind() {
		case Map:
			n = n.Get(tok)
		case Seq:
			i, err := strconv.Atoi(tok)
			items := n.Items()
			if err != nil || i < 0 || i >= len(items) {
				return nil, false
			}
			n = items[i]
		default:
			return nil, false
		}
		if n == nil {
			return nil, false
		}
	}
	return n, true
}
