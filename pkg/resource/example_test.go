package resource_test

import (
	"fmt"

	"github.com/matzehuels/droidview/pkg/resource"
)

func ExampleTable_Add() {
	t := resource.NewTable()
	fmt.Println(t.Add("title", "Welcome"))
	fmt.Println(t.Add("title", "Sign in"))
	// Equal values share one entry.
	fmt.Println(t.Add("heading", "Welcome"))
	fmt.Println(t.Len())
	// Output:
	// title
	// title_1
	// title
	// 2
}

func ExampleParseColor() {
	for _, v := range []string{"#369", "rgba(255, 0, 0, 0.5)"} {
		c, err := resource.ParseColor(v)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(c.Hex())
	}
	// Output:
	// #336699
	// #80FF0000
}
