package rescache

import "container/heap"

// purgeableHeap is a min-heap of purgeable resources ordered by
// timestamp: the root is always the oldest (least recently promoted)
// resource, and is therefore the next eviction target. It is built on
// the standard library's container/heap, with a stored heap position
// on every element maintained by Swap/Push/Pop, so that removing an
// arbitrary element by its own stored index stays O(log n).
type purgeableHeap struct {
	items []Resource
}

var _ heap.Interface = (*purgeableHeap)(nil)

func (self *purgeableHeap) Len() int { return len(self.items) }

func (self *purgeableHeap) Less(i, j int) bool {
	return self.items[i].Timestamp() < self.items[j].Timestamp()
}

func (self *purgeableHeap) Swap(i, j int) {
	self.items[i], self.items[j] = self.items[j], self.items[i]
	self.items[i].SetCacheIndex(i)
	self.items[j].SetCacheIndex(j)
}

func (self *purgeableHeap) Push(x interface{}) {
	r := x.(Resource)
	r.SetCacheIndex(len(self.items))
	self.items = append(self.items, r)
}

func (self *purgeableHeap) Pop() interface{} {
	n := len(self.items)
	r := self.items[n-1]
	self.items[n-1] = nil
	self.items = self.items[:n-1]
	r.SetCacheIndex(-1)
	return r
}

func (self *purgeableHeap) insert(r Resource) { heap.Push(self, r) }

func (self *purgeableHeap) removeAt(i int) Resource { return heap.Remove(self, i).(Resource) }

func (self *purgeableHeap) peek() Resource {
	if len(self.items) == 0 {
		return nil
	}
	return self.items[0]
}

func (self *purgeableHeap) len() int { return len(self.items) }

func (self *purgeableHeap) reset() {
	self.items = self.items[:0]
}
