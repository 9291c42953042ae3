package content

import (
	"cmp"
	"slices"
)

// TreeNode is a page in the navigation tree.
type TreeNode struct {
	ID       string      `json:"id"`
	Slug     string      `json:"slug"`
	Title    string      `json:"title"`
	Access   Access      `json:"access"`
	Sort     int         `json:"sort"`
	Children []*TreeNode `json:"children"`
}

// BuildTree nests pages under their parents. Pages without a parent, or
// whose parent is not in pages, become roots. Siblings are ordered by sort,
// then title.
func BuildTree(pages []Page) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(pages))
	for _, p := range pages {
		nodes[p.ID] = &TreeNode{
			ID:       p.ID,
			Slug:     p.Slug,
			Title:    p.Title,
			Access:   p.Access,
			Sort:     p.Sort,
			Children: []*TreeNode{},
		}
	}

	roots := []*TreeNode{}
	for _, p := range pages {
		node := nodes[p.ID]
		if p.ParentID != nil && *p.ParentID != p.ID {
			if parent, ok := nodes[*p.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*TreeNode) {
	slices.SortStableFunc(nodes, func(a, b *TreeNode) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.Title, b.Title))
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
