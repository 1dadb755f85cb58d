package navmesh

import (
	"container/heap"
)

const (
	nodeOpen   = 0x01
	nodeClosed = 0x02
)

// searchNode is the per-call A* state of a mesh node.
type searchNode struct {
	id     NodeIndex
	parent int32   // arena index of the parent, -1 for the start
	cost   float64 // cost up to the node
	total  float64 // cost plus heuristic
	flags  uint8
}

// queueEntry is a snapshot pushed on the open list. An entry whose total no
// longer matches the arena node is stale and skipped on pop.
type queueEntry struct {
	node  int32
	total float64
}

type NodeQueue[T any] interface {
	Poll() T   //从堆顶弹出一个元素
	Offer(T)   //插入一个元素
	Len() int
	Empty() bool
}

// 优先级队列
type nodeQueue[T any] struct {
	data []T
	less func(t1, t2 T) bool
}

func NewNodeQueue[T any](less func(t1, t2 T) bool) NodeQueue[T] {
	q := &nodeQueue[T]{less: less}
	heap.Init(q)
	return q
}

func (q *nodeQueue[T]) Poll() T { return heap.Pop(q).(T) } //从堆顶弹出一个元素

func (q *nodeQueue[T]) Offer(value T) { heap.Push(q, value) } //插入一个元素

func (q *nodeQueue[T]) Push(x any) {
	q.data = append(q.data, x.(T))
}

// Pop removes the last element, heap.Pop has already swapped the top there.
func (q *nodeQueue[T]) Pop() (res any) {
	n := len(q.data)
	res = q.data[n-1]
	var zero T
	q.data[n-1] = zero
	q.data = q.data[:n-1]
	return res
}

func (q *nodeQueue[T]) Len() int {
	return len(q.data)
}

func (q *nodeQueue[T]) Empty() bool {
	return q.Len() == 0
}

func (q *nodeQueue[T]) Less(i, j int) bool { return q.less(q.data[i], q.data[j]) }

func (q *nodeQueue[T]) Swap(i, j int) {
	q.data[i], q.data[j] = q.data[j], q.data[i]
}
