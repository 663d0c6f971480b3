package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/render/nodelink"
	"github.com/matzehuels/bintree/pkg/tree"
)

func ExampleToDOT() {
	cfg := tree.DefaultConfig()
	res := tree.Parse("1 2", cfg)

	fmt.Print(nodelink.ToDOT(graph.FromTree(res.Tree(), cfg), nodelink.Options{}))
	// Output:
	// graph T {
	//   layout=neato;
	//   inputscale=72;
	//   bgcolor="transparent";
	//   node [shape=circle, fixedsize=true, width=1.1111111111111112, style=filled, fillcolor=white, fontsize=24];
	//
	//   n0 [label="1", pos="210,280!"];
	//   n1 [label="2", pos="140,140!"];
	//
	//   n0 -- n1;
	// }
}
