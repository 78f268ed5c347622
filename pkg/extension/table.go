package extension

import (
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// Table maps HTML tables onto grid containers. Cells are lifted out of
// their row and section elements and placed by the HTML table algorithm,
// honoring colspan and rowspan. A caption spans the first row.
type Table struct {
	Base
}

// NewTable returns the table extension.
func NewTable() *Table { return &Table{Base{ExtName: "table", Tags: []string{"table"}}} }

var tableSections = map[string]bool{"thead": true, "tbody": true, "tfoot": true}

func (t *Table) ProcessNode(ctx *Context, n *node.Node) Result {
	var (
		caption  *node.Node
		rows     [][]*node.Node
		wrappers []*node.Node
	)
	var collect func(p *node.Node)
	collect = func(p *node.Node) {
		for _, c := range p.DocumentChildren() {
			switch tag := c.Tag(); {
			case tag == "caption" && caption == nil:
				caption = c
			case tableSections[tag]:
				wrappers = append(wrappers, c)
				collect(c)
			case tag == "tr":
				wrappers = append(wrappers, c)
				var cells []*node.Node
				for _, cell := range c.DocumentChildren() {
					if cell.Tag() == "td" || cell.Tag() == "th" {
						cells = append(cells, cell)
					}
				}
				rows = append(rows, cells)
			}
		}
	}
	collect(n)
	if len(rows) == 0 {
		return Result{}
	}

	offset := 0
	if caption != nil {
		offset = 1
	}
	occupied := map[[2]int]bool{}
	placed := make(map[*node.Node]view.Cell)
	var order []*node.Node
	columns := 0
	for r, cells := range rows {
		col := 0
		for _, cell := range cells {
			for occupied[[2]int{r, col}] {
				col++
			}
			cs, rs := ExplicitSpan(cell)
			cs, rs = max(cs, 1), max(rs, 1)
			for dr := range rs {
				for dc := range cs {
					occupied[[2]int{r + dr, col + dc}] = true
				}
			}
			placed[cell] = view.Cell{Row: r + offset, Column: col, RowSpan: rs, ColumnSpan: cs}
			order = append(order, cell)
			col += cs
			columns = max(columns, col)
		}
	}

	if caption != nil {
		if err := ctx.Tree.Reparent(caption, n); err != nil {
			ctx.Logger.Warn("table caption", "node", caption.ID, "err", err)
		}
		SetCell(caption, view.Cell{Row: 0, Column: 0, RowSpan: 1, ColumnSpan: columns})
	}
	for _, cell := range order {
		if err := ctx.Tree.Reparent(cell, n); err != nil {
			ctx.Logger.Warn("table cell", "node", cell.ID, "err", err)
			continue
		}
		SetCell(cell, placed[cell])
	}
	for _, w := range wrappers {
		w.Hidden = true
	}

	n.Kind = node.KindGrid
	SetColumns(n, columns)
	return Result{Complete: true}
}
