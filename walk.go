package sevm

import (
	"sort"
)

// Visitor is invoked for each node encountered by Walk. If the returned
// visitor is nil, the node's children are not visited.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses an expression tree in depth-first preorder, calling
// v.Visit for each node. Traversal uses an explicit stack so that deep
// overlay chains do not exhaust the call stack.
func Walk(v Visitor, node Node) {
	type frame struct {
		v    Visitor
		node Node
	}
	stack := []frame{{v, node}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		w := f.v.Visit(f.node)
		if w == nil {
			continue
		}

		// Push children in reverse so they pop in declaration order.
		push := func(children ...Node) {
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{w, children[i]})
			}
		}

		switch n := f.node.(type) {
		case *Lit, *Var, *LitByte, *EmptyBuf, *ConcreteBuf, *AbstractBuf,
			*EmptyStore, *ConcreteStore, *AbstractStore:
			// leaf
		case *BinaryExpr:
			push(n.LHS, n.RHS)
		case *UnaryExpr:
			push(n.X)
		case *TernaryExpr:
			push(n.X, n.Y, n.Z)
		case *ReadWordExpr:
			push(n.Index, n.Buf)
		case *BufLengthExpr:
			push(n.Buf)
		case *JoinBytesExpr:
			children := make([]Node, len(n.Bytes))
			for i, b := range n.Bytes {
				children[i] = b
			}
			push(children...)
		case *SLoadExpr:
			push(n.Key, n.Store)
		case *EqByteExpr:
			push(n.X, n.Y)
		case *ReadByteExpr:
			push(n.Index, n.Buf)
		case *IndexWordExpr:
			push(n.Index, n.Word)
		case *WriteByteExpr:
			push(n.Index, n.Value, n.Base)
		case *WriteWordExpr:
			push(n.Index, n.Value, n.Base)
		case *CopySliceExpr:
			push(n.SrcOff, n.DstOff, n.Size, n.Src, n.Dst)
		case *SStoreExpr:
			push(n.Key, n.Value, n.Base)
		}
	}
}

// FindVars returns the sorted names of all free word variables in nodes.
func FindVars(nodes ...Node) []string {
	v := &leafVisitor{names: make(map[string]struct{})}
	v.match = func(node Node) (string, bool) {
		if n, ok := node.(*Var); ok {
			return n.Name, true
		}
		return "", false
	}
	return v.collect(nodes)
}

// FindBufs returns the sorted names of all abstract buffers in nodes.
func FindBufs(nodes ...Node) []string {
	v := &leafVisitor{names: make(map[string]struct{})}
	v.match = func(node Node) (string, bool) {
		if n, ok := node.(*AbstractBuf); ok {
			return n.Name, true
		}
		return "", false
	}
	return v.collect(nodes)
}

// FindStores returns the sorted names of all abstract stores in nodes.
func FindStores(nodes ...Node) []string {
	v := &leafVisitor{names: make(map[string]struct{})}
	v.match = func(node Node) (string, bool) {
		if n, ok := node.(*AbstractStore); ok {
			return n.Name, true
		}
		return "", false
	}
	return v.collect(nodes)
}

type leafVisitor struct {
	match func(Node) (string, bool)
	names map[string]struct{}
}

func (v *leafVisitor) Visit(node Node) Visitor {
	if name, ok := v.match(node); ok {
		v.names[name] = struct{}{}
	}
	return v
}

func (v *leafVisitor) collect(nodes []Node) []string {
	for _, node := range nodes {
		Walk(v, node)
	}
	a := make([]string, 0, len(v.names))
	for name := range v.names {
		a = append(a, name)
	}
	sort.Strings(a)
	return a
}
