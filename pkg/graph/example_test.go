package graph_test

import (
	"fmt"

	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/tree"
)

func ExampleMarshalLayout() {
	cfg := tree.DefaultConfig()
	res := tree.Parse("1 2", cfg)

	data, err := graph.MarshalLayout(graph.FromTree(res.Tree(), cfg))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(string(data))
	// Output:
	// {
	//   "input": "1 2",
	//   "width": 350,
	//   "height": 420,
	//   "horizontal_spacing": 140,
	//   "vertical_spacing": 140,
	//   "padding": 140,
	//   "tree_height": 2,
	//   "node_count": 2,
	//   "nodes": [
	//     {
	//       "index": "0",
	//       "value": 1,
	//       "x": 210,
	//       "y": 140,
	//       "depth": 0
	//     },
	//     {
	//       "index": "1",
	//       "value": 2,
	//       "x": 140,
	//       "y": 280,
	//       "depth": 1,
	//       "leaf": true
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "0",
	//       "to": "1",
	//       "side": "left"
	//     }
	//   ]
	// }
}

func ExampleToTree() {
	data := []byte(`{
		"node_count": 3,
		"nodes": [
			{"index": "2", "value": 3, "x": 280, "y": 280, "depth": 1},
			{"index": "0", "value": 1, "x": 210, "y": 140, "depth": 0},
			{"index": "1", "value": 2, "x": 140, "y": 280, "depth": 1}
		],
		"edges": [
			{"from": "0", "to": "1", "side": "left"},
			{"from": "0", "to": "2", "side": "right"}
		]
	}`)

	layout, err := graph.UnmarshalLayout(data)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	root, err := graph.ToTree(layout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(tree.Format(root))
	fmt.Println(root.Left.X, root.Right.X)
	// Output:
	// 1 2 3
	// 140 280
}
