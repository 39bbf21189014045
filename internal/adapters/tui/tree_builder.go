package tui

const maxTreeDepth = 10

// TreeRow is one line of the module tree. A module shared by several dependents
// appears once under each of them, every row pointing at the same ModuleNode.
type TreeRow struct {
	Module   *ModuleNode
	Depth    int
	Children []*TreeRow
	Expanded bool
}

// buildTree roots one subtree at every requested module and hangs each
// module's direct dependencies beneath it. Rows start expanded.
func buildTree(targets []string, deps map[string][]string, modules map[string]*ModuleNode) []*TreeRow {
	roots := make([]*TreeRow, 0, len(targets))
	for _, target := range targets {
		if row := buildSubtree(target, deps, modules, 0); row != nil {
			roots = append(roots, row)
		}
	}
	return roots
}

func buildSubtree(name string, deps map[string][]string, modules map[string]*ModuleNode, depth int) *TreeRow {
	if depth > maxTreeDepth {
		return nil
	}
	module := modules[name]
	if module == nil {
		return nil
	}

	row := &TreeRow{Module: module, Depth: depth, Expanded: true}
	for _, dep := range deps[name] {
		if child := buildSubtree(dep, deps, modules, depth+1); child != nil {
			row.Children = append(row.Children, child)
		}
	}
	return row
}

// flattenTree lists the visible rows, skipping the children of collapsed rows.
func flattenTree(roots []*TreeRow) []*TreeRow {
	var flat []*TreeRow

	var walk func(row *TreeRow)
	walk = func(row *TreeRow) {
		flat = append(flat, row)
		if !row.Expanded {
			return
		}
		for _, child := range row.Children {
			walk(child)
		}
	}

	for _, root := range roots {
		walk(root)
	}
	return flat
}
