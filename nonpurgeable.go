package rescache

// nonpurgeableArray is the unordered, dense home for every resource an
// external holder still retains. Each resource's own CacheIndex slot
// tracks its position, so both add and remove run in O(1): removal
// swaps the tail element into the hole and updates that element's
// stored index.
type nonpurgeableArray struct {
	items []Resource
}

func (self *nonpurgeableArray) add(r Resource) {
	r.SetCacheIndex(len(self.items))
	self.items = append(self.items, r)
}

// removeAt drops the element currently at index i via swap-pop. The
// caller is responsible for clearing the removed resource's own
// CacheIndex afterwards if it isn't about to be reassigned elsewhere.
func (self *nonpurgeableArray) removeAt(i int) Resource {
	last := len(self.items) - 1
	if i < 0 || i > last {
		panic("rescache: nonpurgeable array index out of range")
	}
	removed := self.items[i]
	moved := self.items[last]
	self.items[i] = moved
	moved.SetCacheIndex(i)
	self.items[last] = nil
	self.items = self.items[:last]
	return removed
}

func (self *nonpurgeableArray) remove(r Resource) {
	self.removeAt(r.CacheIndex())
	r.SetCacheIndex(-1)
}

func (self *nonpurgeableArray) at(i int) Resource { return self.items[i] }
func (self *nonpurgeableArray) len() int          { return len(self.items) }

func (self *nonpurgeableArray) reset() {
	self.items = self.items[:0]
}
