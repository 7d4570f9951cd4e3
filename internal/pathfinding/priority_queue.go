package pathfinding

import (
	"container/heap"

	"unitnav/internal/core"
)

// nodeHeap orders search nodes by F, preferring the node nearer the goal on ties
type nodeHeap []*core.PathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].F == h[j].F {
		return h[i].H < h[j].H
	}
	return h[i].F < h[j].F
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *nodeHeap) Push(x any) {
	node := x.(*core.PathNode)
	node.Index = len(*h)
	*h = append(*h, node)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[:n-1]
	return node
}

// openList is the A* frontier: a heap plus a lookup by area id
type openList struct {
	heap   nodeHeap
	byArea map[core.AreaID]*core.PathNode
}

func newOpenList() *openList {
	return &openList{byArea: make(map[core.AreaID]*core.PathNode)}
}

func (o *openList) Len() int { return o.heap.Len() }

func (o *openList) push(node *core.PathNode) {
	heap.Push(&o.heap, node)
	o.byArea[node.Area.ID()] = node
}

// pop removes the node with the lowest F
func (o *openList) pop() *core.PathNode {
	node := heap.Pop(&o.heap).(*core.PathNode)
	delete(o.byArea, node.Area.ID())
	return node
}

func (o *openList) get(id core.AreaID) (*core.PathNode, bool) {
	node, ok := o.byArea[id]
	return node, ok
}

// reparent lowers a queued node's cost after a cheaper way in was found
func (o *openList) reparent(node, parent *core.PathNode, how core.NavDirection, g float64) {
	node.G = g
	node.F = g + node.H
	node.How = how
	node.Parent = parent
	heap.Fix(&o.heap, node.Index)
}
