package taxonomy

import (
	"fmt"

	"fjacquet/ofx-import/internal/models"
)

// WithCategory sets the top-level category. The subcategory and leaf survive
// only while they remain valid under the new category. An empty name clears
// the whole path.
func (t *Taxonomy) WithCategory(path models.CategoryPath, name string) (models.CategoryPath, error) {
	if foldName(name) == "" {
		return models.CategoryPath{}, nil
	}
	cat := t.root.child(name)
	if cat == nil {
		return path, fmt.Errorf("%w: unknown category %q", ErrInvalidPath, name)
	}

	next := models.CategoryPath{Category: cat.node.Name}
	if sub := cat.child(path.Subcategory); sub != nil {
		next.Subcategory = sub.node.Name
		if leaf := sub.child(path.Leaf); leaf != nil {
			next.Leaf = leaf.node.Name
		}
	}
	return next, nil
}

// WithSubcategory sets the subcategory. The leaf survives only while it is
// still valid under the new subcategory. An empty name clears the subcategory
// and the leaf.
func (t *Taxonomy) WithSubcategory(path models.CategoryPath, name string) (models.CategoryPath, error) {
	if foldName(name) == "" {
		return models.CategoryPath{Category: path.Category}, nil
	}
	cat := t.root.child(path.Category)
	if cat == nil {
		return path, fmt.Errorf("%w: subcategory %q needs a valid category", ErrInvalidPath, name)
	}
	sub := cat.child(name)
	if sub == nil {
		return path, fmt.Errorf("%w: %q is not a subcategory of %q", ErrInvalidPath, name, cat.node.Name)
	}

	next := models.CategoryPath{Category: cat.node.Name, Subcategory: sub.node.Name}
	if leaf := sub.child(path.Leaf); leaf != nil {
		next.Leaf = leaf.node.Name
	}
	return next, nil
}

// WithLeaf sets the third level. An empty name clears it.
func (t *Taxonomy) WithLeaf(path models.CategoryPath, name string) (models.CategoryPath, error) {
	if foldName(name) == "" {
		path.Leaf = ""
		return path, nil
	}
	sub := t.root.child(path.Category).child(path.Subcategory)
	if sub == nil {
		return path, fmt.Errorf("%w: leaf %q needs a valid subcategory", ErrInvalidPath, name)
	}
	leaf := sub.child(name)
	if leaf == nil {
		return path, fmt.Errorf("%w: %q is not under %s", ErrInvalidPath, name, path.String())
	}
	path.Leaf = leaf.node.Name
	return path, nil
}

// Resolve applies target level by level, so an invalid level is reported
// instead of being dropped.
func (t *Taxonomy) Resolve(target models.CategoryPath) (models.CategoryPath, error) {
	path, err := t.WithCategory(models.CategoryPath{}, target.Category)
	if err != nil {
		return models.CategoryPath{}, err
	}
	if target.Subcategory != "" {
		if path, err = t.WithSubcategory(path, target.Subcategory); err != nil {
			return models.CategoryPath{}, err
		}
	}
	if target.Leaf != "" {
		if path, err = t.WithLeaf(path, target.Leaf); err != nil {
			return models.CategoryPath{}, err
		}
	}
	return path, nil
}

// Normalize drops every level that is not valid under its parent and
// canonicalizes the spelling of the rest.
func (t *Taxonomy) Normalize(path models.CategoryPath) models.CategoryPath {
	cat := t.root.child(path.Category)
	if cat == nil {
		return models.CategoryPath{}
	}
	next := models.CategoryPath{Category: cat.node.Name}
	sub := cat.child(path.Subcategory)
	if sub == nil {
		return next
	}
	next.Subcategory = sub.node.Name
	if leaf := sub.child(path.Leaf); leaf != nil {
		next.Leaf = leaf.node.Name
	}
	return next
}

// IsValid reports whether every set level of path exists under its parent.
// The empty path is valid.
func (t *Taxonomy) IsValid(path models.CategoryPath) bool {
	if path.IsEmpty() {
		return true
	}
	n := t.Normalize(path)
	return n.Category != "" &&
		(n.Subcategory == "") == (path.Subcategory == "") &&
		(n.Leaf == "") == (path.Leaf == "")
}
