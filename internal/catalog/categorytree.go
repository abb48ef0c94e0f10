package catalog

import (
	"github.com/hraza-dev/shopping_center/internal/models"
)

// CategoryNode is one category with its resolved subcategories.
type CategoryNode struct {
	models.ProductCategory
	Subcategories []*CategoryNode `json:"subcategories"`
}

// BuildCategoryTree arranges flat category rows into their parent/child
// tree. Rows whose parent is missing (or null) become roots. Children keep
// the input order of the rows.
func BuildCategoryTree(cats []models.ProductCategory) []*CategoryNode {
	nodes := make(map[uint]*CategoryNode, len(cats))
	for _, c := range cats {
		nodes[c.ID] = &CategoryNode{ProductCategory: c, Subcategories: []*CategoryNode{}}
	}

	var roots []*CategoryNode
	for _, c := range cats {
		node := nodes[c.ID]
		if c.ParentCategoryID != nil {
			if parent, ok := nodes[*c.ParentCategoryID]; ok {
				parent.Subcategories = append(parent.Subcategories, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// Subtree returns the node for id with its descendants, or false when the
// id is unknown.
func Subtree(cats []models.ProductCategory, id uint) (*CategoryNode, bool) {
	nodes := make(map[uint]*CategoryNode, len(cats))
	for _, c := range cats {
		nodes[c.ID] = &CategoryNode{ProductCategory: c, Subcategories: []*CategoryNode{}}
	}
	for _, c := range cats {
		if c.ParentCategoryID != nil {
			if parent, ok := nodes[*c.ParentCategoryID]; ok {
				parent.Subcategories = append(parent.Subcategories, nodes[c.ID])
			}
		}
	}
	node, ok := nodes[id]
	return node, ok
}

// Ancestors walks the parent links from id upwards, nearest parent first.
// The walk stops on a missing parent or after len(cats) steps, so a corrupt
// cyclic graph cannot loop forever.
func Ancestors(cats []models.ProductCategory, id uint) []models.ProductCategory {
	byID := make(map[uint]models.ProductCategory, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	var chain []models.ProductCategory
	cur, ok := byID[id]
	for steps := 0; ok && cur.ParentCategoryID != nil && steps < len(cats); steps++ {
		cur, ok = byID[*cur.ParentCategoryID]
		if ok {
			chain = append(chain, cur)
		}
	}
	return chain
}

// WouldCreateCycle reports whether repointing category id at newParent would
// make the category graph cyclic. Every parent-link write must pass this
// check; the store does not enforce it.
func WouldCreateCycle(cats []models.ProductCategory, id uint, newParent *uint) bool {
	if newParent == nil {
		return false
	}
	if *newParent == id {
		return true
	}

	parentOf := make(map[uint]*uint, len(cats))
	for _, c := range cats {
		parentOf[c.ID] = c.ParentCategoryID
	}

	// walk up from the proposed parent; hitting id means a cycle
	cur := newParent
	for steps := 0; cur != nil && steps <= len(cats); steps++ {
		if *cur == id {
			return true
		}
		cur = parentOf[*cur]
	}
	return false
}
