package tree

// Kind discriminates the three outcomes of [Parse].
type Kind int

const (
	// KindEmpty means the input described no tree. It is not an error.
	KindEmpty Kind = iota
	// KindTree means the input produced a laid-out tree.
	KindTree
	// KindInvalid means the input failed validation.
	KindInvalid
)

// String returns the lower-case name of k.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindTree:
		return "tree"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// Result is the outcome of parsing: no tree, a tree, or an error, never
// both a tree and an error. Construct it with [Empty], [Valid] or
// [Invalid].
type Result struct {
	kind Kind
	root *Node
	err  error
}

// Empty returns the result for input that describes no tree.
func Empty() Result {
	return Result{kind: KindEmpty}
}

// Valid returns a result holding root. A nil root is the empty result.
func Valid(root *Node) Result {
	if root == nil {
		return Empty()
	}
	return Result{kind: KindTree, root: root}
}

// Invalid returns a result holding err. A nil err is the empty result.
func Invalid(err error) Result {
	if err == nil {
		return Empty()
	}
	return Result{kind: KindInvalid, err: err}
}

// Kind reports which outcome r holds.
func (r Result) Kind() Kind { return r.kind }

// Tree returns the root of the parsed tree, or nil.
func (r Result) Tree() *Node { return r.root }

// Err returns the validation error, or nil.
func (r Result) Err() error { return r.err }

// IsEmpty reports whether the input described no tree.
func (r Result) IsEmpty() bool { return r.kind == KindEmpty }

// HasTree reports whether r holds a tree.
func (r Result) HasTree() bool { return r.kind == KindTree }

// Failed reports whether r holds an error.
func (r Result) Failed() bool { return r.kind == KindInvalid }

// Parse tokenizes text, builds the tree and lays it out with cfg.
//
// Blank input and input whose first token is a null marker yield the empty
// result. A validation failure aborts at the first offending token. Each
// call allocates a fresh tree; trees returned earlier are never touched.
func Parse(text string, cfg Config) Result {
	values, err := Tokenize(text)
	if err != nil {
		return Invalid(err)
	}

	root := Build(values)
	if root == nil {
		return Empty()
	}

	if err := Layout(root, cfg); err != nil {
		return Invalid(err)
	}
	return Valid(root)
}
