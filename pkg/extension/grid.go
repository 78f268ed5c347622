package extension

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/droidview/pkg/config"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// XMap buckets nodes per render parent by their rounded left edge. Grid
// detection reads the column candidates of a parent from it.
type XMap map[int]map[int][]*node.Node

// Add records n under its current render parent.
func (m XMap) Add(n *node.Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	if m[p.ID] == nil {
		m[p.ID] = make(map[int][]*node.Node)
	}
	left := int(math.Round(n.Linear.Left))
	m[p.ID][left] = append(m[p.ID][left], n)
}

// Columns returns the distinct left edges of the render children of
// parent, merging edges closer than tolerance. Indexed nodes that were
// moved to another parent are skipped; children that arrived after
// indexing are read from the live child list.
func (m XMap) Columns(parent *node.Node, tolerance float64) []float64 {
	seen := make(map[*node.Node]bool)
	var lefts []int
	for left, nodes := range m[parent.ID] {
		for _, n := range nodes {
			if n.Parent() == parent && !n.Hidden {
				seen[n] = true
				lefts = append(lefts, left)
			}
		}
	}
	for _, c := range parent.VisibleChildren() {
		if !seen[c] {
			lefts = append(lefts, int(math.Round(c.Linear.Left)))
		}
	}
	slices.Sort(lefts)
	var cols []float64
	for _, l := range lefts {
		if len(cols) > 0 && float64(l)-cols[len(cols)-1] <= tolerance {
			continue
		}
		cols = append(cols, float64(l))
	}
	return cols
}

// Routing tags for grid placement.
const (
	tagColumns    = "grid.columns"
	tagRow        = "grid.row"
	tagColumn     = "grid.column"
	tagRowSpan    = "grid.rowSpan"
	tagColumnSpan = "grid.columnSpan"
)

// SetColumns records the column count of a grid container.
func SetColumns(n *node.Node, columns int) {
	n.SetTag(tagColumns, strconv.Itoa(columns))
}

// ColumnsOf returns the column count recorded by [SetColumns].
func ColumnsOf(n *node.Node) int {
	v, _ := n.TagValue(tagColumns)
	c, _ := strconv.Atoi(v)
	return c
}

// SetCell records the grid placement of n.
func SetCell(n *node.Node, c view.Cell) {
	n.SetTag(tagRow, strconv.Itoa(c.Row))
	n.SetTag(tagColumn, strconv.Itoa(c.Column))
	n.SetTag(tagRowSpan, strconv.Itoa(max(c.RowSpan, 1)))
	n.SetTag(tagColumnSpan, strconv.Itoa(max(c.ColumnSpan, 1)))
}

// CellOf returns the placement recorded by [SetCell].
func CellOf(n *node.Node) (view.Cell, bool) {
	row, ok := n.TagValue(tagRow)
	if !ok {
		return view.Cell{}, false
	}
	col, _ := n.TagValue(tagColumn)
	rs, _ := n.TagValue(tagRowSpan)
	cs, _ := n.TagValue(tagColumnSpan)
	c := view.Cell{RowSpan: 1, ColumnSpan: 1}
	c.Row, _ = strconv.Atoi(row)
	c.Column, _ = strconv.Atoi(col)
	if v, err := strconv.Atoi(rs); err == nil {
		c.RowSpan = v
	}
	if v, err := strconv.Atoi(cs); err == nil {
		c.ColumnSpan = v
	}
	return c, true
}

// ExplicitSpan returns the column and row spans set on n by colspan and
// rowspan attributes or by "span N" grid placement. Zero means unset.
func ExplicitSpan(n *node.Node) (cols, rows int) {
	cols = spanValue(n.Attr("colspan"), n.CSS("grid-column-end"), n.CSS("grid-column"))
	rows = spanValue(n.Attr("rowspan"), n.CSS("grid-row-end"), n.CSS("grid-row"))
	return cols, rows
}

func spanValue(attr string, css ...string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(attr)); err == nil && v > 0 {
		return v
	}
	for _, c := range css {
		for _, part := range strings.Split(c, "/") {
			f := strings.Fields(part)
			if len(f) == 2 && f[0] == "span" {
				if v, err := strconv.Atoi(f[1]); err == nil && v > 0 {
					return v
				}
			}
		}
	}
	return 0
}

// GridLayout is a detected grid.
type GridLayout struct {
	Rows    int
	Columns int
	Cells   map[*node.Node]view.Cell
}

// DetectGrid reports whether the children of parent form a grid of at
// least two rows and two columns.
//
// The "scan" strategy matches every cell's left edge against the column
// candidates of the X map and requires each row to fill all columns. The
// "balance" strategy compares the array of cell widths row by row.
func DetectGrid(parent *node.Node, xmap XMap, strategy string, tolerance float64) (GridLayout, bool) {
	children := parent.VisibleChildren()
	if len(children) < 4 {
		return GridLayout{}, false
	}
	for _, c := range children {
		if c.IsText() || !c.Pageflow() || c.ZeroFootprint() {
			return GridLayout{}, false
		}
	}
	rows := gridRows(children, tolerance)
	if len(rows) < 2 {
		return GridLayout{}, false
	}
	if strategy == config.GridBalance {
		return balanceGrid(rows, tolerance)
	}
	return scanGrid(rows, xmap.Columns(parent, tolerance), tolerance)
}

// gridRows groups nodes into rows by top edge, each row sorted by left
// edge.
func gridRows(nodes []*node.Node, tolerance float64) [][]*node.Node {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b *node.Node) int {
		return cmp.Or(cmp.Compare(a.Linear.Top, b.Linear.Top), cmp.Compare(a.Linear.Left, b.Linear.Left))
	})
	var rows [][]*node.Node
	for _, n := range sorted {
		if last := len(rows) - 1; last >= 0 && math.Abs(rows[last][0].Linear.Top-n.Linear.Top) <= tolerance {
			rows[last] = append(rows[last], n)
			continue
		}
		rows = append(rows, []*node.Node{n})
	}
	for _, r := range rows {
		slices.SortStableFunc(r, func(a, b *node.Node) int { return cmp.Compare(a.Linear.Left, b.Linear.Left) })
	}
	return rows
}

func scanGrid(rows [][]*node.Node, cols []float64, tolerance float64) (GridLayout, bool) {
	if len(cols) < 2 {
		return GridLayout{}, false
	}
	g := GridLayout{Rows: len(rows), Columns: len(cols), Cells: make(map[*node.Node]view.Cell)}
	for r, row := range rows {
		cursor := 0
		for _, n := range row {
			c := slices.IndexFunc(cols, func(x float64) bool { return math.Abs(x-n.Linear.Left) <= tolerance })
			if c != cursor {
				return GridLayout{}, false
			}
			span, _ := ExplicitSpan(n)
			if span == 0 {
				span = 1
				for c+span < len(cols) && cols[c+span] < n.Linear.Right-tolerance {
					span++
				}
			}
			g.Cells[n] = view.Cell{Row: r, Column: c, RowSpan: 1, ColumnSpan: span}
			cursor = c + span
		}
		if cursor != len(cols) {
			return GridLayout{}, false
		}
	}
	return g, true
}

func balanceGrid(rows [][]*node.Node, tolerance float64) (GridLayout, bool) {
	first := rows[0]
	if len(first) < 2 {
		return GridLayout{}, false
	}
	g := GridLayout{Rows: len(rows), Columns: len(first), Cells: make(map[*node.Node]view.Cell)}
	for r, row := range rows {
		if len(row) != len(first) {
			return GridLayout{}, false
		}
		for c, n := range row {
			if math.Abs(n.Linear.Width()-first[c].Linear.Width()) > tolerance {
				return GridLayout{}, false
			}
			g.Cells[n] = view.Cell{Row: r, Column: c, RowSpan: 1, ColumnSpan: 1}
		}
	}
	return g, true
}

// Grid turns children arranged in rows and columns into a grid container.
type Grid struct {
	Base
}

// NewGrid returns the grid extension.
func NewGrid() *Grid { return &Grid{Base{ExtName: "grid"}} }

// Included accepts element nodes with enough children to form a grid.
func (g *Grid) Included(n *node.Node) bool {
	if n.Attr("data-layout") == "none" {
		return false
	}
	return g.Base.Included(n) || (!n.IsGroup() && len(n.Children()) >= 4)
}

func (g *Grid) ProcessNode(ctx *Context, n *node.Node) Result {
	layout, ok := DetectGrid(n, ctx.XMap, ctx.Settings.GridStrategy, ctx.Settings.EdgeTolerance)
	if !ok {
		return Result{}
	}
	n.Kind = node.KindGrid
	n.Alignment |= node.AlignSegmented
	SetColumns(n, layout.Columns)
	for c, cell := range layout.Cells {
		SetCell(c, cell)
	}
	ctx.Logger.Debug("grid detected", "node", n.ID, "rows", layout.Rows, "columns", layout.Columns)
	return Result{Complete: true}
}
