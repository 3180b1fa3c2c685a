package expr

// node is an inline-code AST node.
type node interface {
	nodePos() int
}

// litNode is a literal value: number, string, bool, or nil.
type litNode struct {
	pos int
	val any
}

// nameNode is a scoped name reference. The name keeps any leading
// parent-traversal dots and embedded dots ("..user.name"); resolution is
// the host's business.
type nameNode struct {
	pos  int
	name string
}

// callNode invokes a registered resolver function by dotted name.
type callNode struct {
	pos  int
	name string
	args []node
}

// memberNode accesses a key of an evaluated value, as in f(x).total.
type memberNode struct {
	pos int
	x   node
	key string
}

// unaryNode is prefix negation: -x or !x.
type unaryNode struct {
	pos int
	op  string
	x   node
}

// binaryNode is an infix operation.
type binaryNode struct {
	pos  int
	op   string
	l, r node
}

// condNode is the ternary c ? t : f.
type condNode struct {
	pos       int
	cond      node
	then, els node
}

func (n *litNode) nodePos() int    { return n.pos }
func (n *nameNode) nodePos() int   { return n.pos }
func (n *callNode) nodePos() int   { return n.pos }
func (n *memberNode) nodePos() int { return n.pos }
func (n *unaryNode) nodePos() int  { return n.pos }
func (n *binaryNode) nodePos() int { return n.pos }
func (n *condNode) nodePos() int   { return n.pos }
