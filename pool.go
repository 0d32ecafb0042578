package offcanvas

import "fmt"

// DefaultPoolGrow is the number of nodes added each time a pool runs dry.
const DefaultPoolGrow = 64

// NodePool hands out RenderNodes from a grow-only table. Free nodes are kept
// as a stack of table indices; released nodes are not cleared until they are
// acquired again. A pool is owned by one goroutine.
type NodePool struct {
	nodes []*RenderNode
	free  []int32
	grow  int
	grows int

	// Debug enables double-release detection.
	Debug bool
}

// NewNodePool returns an empty pool growing by grow nodes at a time.
// Non-positive values use DefaultPoolGrow.
func NewNodePool(grow int) *NodePool {
	if grow <= 0 {
		grow = DefaultPoolGrow
	}
	return &NodePool{grow: grow}
}

// Acquire returns a zeroed node. It grows the pool when no free node is left
// and never fails.
func (p *NodePool) Acquire() *RenderNode {
	if len(p.free) == 0 {
		p.expand()
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	n := p.nodes[i]
	n.reset()
	n.inUse = true
	return n
}

func (p *NodePool) expand() {
	base := len(p.nodes)
	block := make([]RenderNode, p.grow)
	for i := range block {
		block[i].index = int32(base + i)
		p.nodes = append(p.nodes, &block[i])
	}
	// Push in reverse so the lowest index is handed out first.
	for i := base + p.grow - 1; i >= base; i-- {
		p.free = append(p.free, int32(i))
	}
	p.grows++
	Logger().Debug("node pool grew", "allocated", len(p.nodes))
}

// Release returns n and all of its descendants to the pool.
func (p *NodePool) Release(n *RenderNode) {
	if n == nil {
		return
	}
	if !n.inUse {
		if p.Debug {
			panic(fmt.Sprintf("offcanvas debug: double release of node %d", n.index))
		}
		return
	}
	for _, ch := range n.Children {
		p.Release(ch)
	}
	n.inUse = false
	p.free = append(p.free, n.index)
}

// Allocated returns the total number of nodes ever created.
func (p *NodePool) Allocated() int { return len(p.nodes) }

// InUse returns the number of nodes currently acquired.
func (p *NodePool) InUse() int { return len(p.nodes) - len(p.free) }

// Grows returns how many times the pool has expanded.
func (p *NodePool) Grows() int { return p.grows }
