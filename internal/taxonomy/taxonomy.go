// Package taxonomy holds the three level category tree and the pure
// transition functions that keep a CategoryPath consistent with it.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/ofx-import/internal/models"
)

// ErrInvalidPath is returned when a name is not a child of the level above.
var ErrInvalidPath = errors.New("invalid category path")

// Kind tells whether a top-level category collects income or expenses.
type Kind string

// Category kinds.
const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Definition is the nested form a taxonomy is declared in.
type Definition struct {
	Name     string       `yaml:"name"`
	Kind     Kind         `yaml:"kind,omitempty"`
	Children []Definition `yaml:"children,omitempty"`
}

// Node is one taxonomy entry. Only top-level nodes carry a Kind.
type Node struct {
	ID       string
	Name     string
	ParentID string
	Kind     Kind
}

type entry struct {
	node     Node
	children []*entry
	byName   map[string]*entry
}

func newEntry(node Node) *entry {
	return &entry{node: node, byName: map[string]*entry{}}
}

func (e *entry) child(name string) *entry {
	if e == nil {
		return nil
	}
	return e.byName[foldName(name)]
}

func (e *entry) names() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.children))
	for i, c := range e.children {
		out[i] = c.node.Name
	}
	return out
}

// Taxonomy is an immutable category tree. Names are matched case-insensitively
// and reported in their declared spelling.
type Taxonomy struct {
	root *entry
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a Taxonomy. Names must be non-empty and unique among siblings;
// top-level kinds default to expense.
func New(defs []Definition) (*Taxonomy, error) {
	root := newEntry(Node{})
	if err := addChildren(root, defs, 0); err != nil {
		return nil, err
	}
	return &Taxonomy{root: root}, nil
}

// MustNew is New for static definitions.
func MustNew(defs []Definition) *Taxonomy {
	t, err := New(defs)
	if err != nil {
		panic(err)
	}
	return t
}

func addChildren(parent *entry, defs []Definition, depth int) error {
	if len(defs) > 0 && depth > 2 {
		return fmt.Errorf("taxonomy deeper than three levels under %q", parent.node.Name)
	}
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return fmt.Errorf("empty taxonomy name under %q", parent.node.Name)
		}
		key := foldName(name)
		if _, dup := parent.byName[key]; dup {
			return fmt.Errorf("duplicate taxonomy name %q under %q", name, parent.node.Name)
		}

		node := Node{ID: nodeID(parent.node.ID, name), Name: name, ParentID: parent.node.ID}
		if depth == 0 {
			node.Kind = def.Kind
			if node.Kind == "" {
				node.Kind = KindExpense
			}
			if node.Kind != KindIncome && node.Kind != KindExpense {
				return fmt.Errorf("unknown kind %q for category %q", def.Kind, name)
			}
		}

		child := newEntry(node)
		parent.children = append(parent.children, child)
		parent.byName[key] = child
		if err := addChildren(child, def.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeID(parentID, name string) string {
	slug := strings.ReplaceAll(foldName(name), " ", "-")
	if parentID == "" {
		return slug
	}
	return parentID + "/" + slug
}

// Categories returns the top-level names in declaration order.
func (t *Taxonomy) Categories() []string {
	return t.root.names()
}

// Subcategories returns the children of category, nil when unknown.
func (t *Taxonomy) Subcategories(category string) []string {
	return t.root.child(category).names()
}

// Leaves returns the children of category > subcategory, nil when unknown.
func (t *Taxonomy) Leaves(category, subcategory string) []string {
	return t.root.child(category).child(subcategory).names()
}

// HasCategory reports whether category exists.
func (t *Taxonomy) HasCategory(category string) bool {
	return t.root.child(category) != nil
}

// HasSubcategory reports whether subcategory is a child of category.
func (t *Taxonomy) HasSubcategory(category, subcategory string) bool {
	return t.root.child(category).child(subcategory) != nil
}

// HasLeaf reports whether leaf is a child of category > subcategory.
func (t *Taxonomy) HasLeaf(category, subcategory, leaf string) bool {
	return t.root.child(category).child(subcategory).child(leaf) != nil
}

// KindOf returns the kind of a top-level category.
func (t *Taxonomy) KindOf(category string) (Kind, bool) {
	e := t.root.child(category)
	if e == nil {
		return "", false
	}
	return e.node.Kind, true
}

// Node returns the node addressed by path, which must be fully valid.
func (t *Taxonomy) Node(path models.CategoryPath) (Node, bool) {
	if !t.IsValid(path) || path.IsEmpty() {
		return Node{}, false
	}
	e := t.root.child(path.Category)
	if path.Subcategory != "" {
		e = e.child(path.Subcategory)
	}
	if path.Leaf != "" {
		e = e.child(path.Leaf)
	}
	return e.node, true
}

// Nodes returns every node, parents before children.
func (t *Taxonomy) Nodes() []Node {
	var out []Node
	var walk func(e *entry)
	walk = func(e *entry) {
		for _, c := range e.children {
			out = append(out, c.node)
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// Definitions returns the nested form of the taxonomy.
func (t *Taxonomy) Definitions() []Definition {
	var build func(e *entry) []Definition
	build = func(e *entry) []Definition {
		if len(e.children) == 0 {
			return nil
		}
		defs := make([]Definition, len(e.children))
		for i, c := range e.children {
			defs[i] = Definition{Name: c.node.Name, Kind: c.node.Kind, Children: build(c)}
		}
		return defs
	}
	return build(t.root)
}
