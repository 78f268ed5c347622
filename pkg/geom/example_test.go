package geom_test

import (
	"fmt"

	"github.com/matzehuels/droidview/pkg/geom"
)

func ExampleRect_Expand() {
	content := geom.FromSize(10, 20, 100, 50)
	margin := geom.Edges{Top: 8, Right: 4, Bottom: 8, Left: 4}

	box := content.Expand(margin)
	fmt.Println(box.Width(), box.Height())
	fmt.Println(box.Shrink(margin) == content)
	// Output:
	// 108 66
	// true
}

func ExampleUnion() {
	r := geom.Union(geom.FromSize(0, 0, 10, 10), geom.FromSize(20, 5, 10, 10))
	fmt.Println(r.Left, r.Top, r.Right, r.Bottom)
	// Output:
	// 0 0 30 15
}
