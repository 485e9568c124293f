package rescache

// Remove takes a resource out of the cache entirely: whichever
// container currently holds it, the scratch map, and the unique hash.
// The resource must already be in the cache.
func (self *Cache) Remove(r Resource) {
	idx := r.CacheIndex()
	if idx == -1 {
		panic("rescache: resource not in cache")
	}

	if r.IsPurgeable() {
		self.purgeable.removeAt(idx)
	} else {
		self.nonpurgeable.remove(r)
	}

	size := uint64(r.GPUMemorySize())
	self.bytes -= size
	if r.IsBudgeted() {
		self.budgetedBytes -= size
		self.budgetedCount--
	}

	if r.ScratchKey().IsValid() && !r.IsWrapped() {
		self.scratch.remove(r)
	}
	if key := r.UniqueKey(); key.IsValid() {
		self.unique.remove(key)
	}

	self.validate()
}

// ReleaseAll drains both containers, calling Release on every element.
// Each Release call is expected to call back into Remove, which is why
// the loops always re-fetch the tail/peek element rather than ranging
// over a snapshot: the container mutates under us as we go.
func (self *Cache) ReleaseAll() {
	for self.nonpurgeable.len() > 0 {
		self.nonpurgeable.at(self.nonpurgeable.len() - 1).Release()
	}
	for self.purgeable.len() > 0 {
		self.purgeable.peek().Release()
	}
}

// AbandonAll is ReleaseAll's counterpart for when the underlying GPU
// context is already gone and resources must forget their allocations
// without making any GPU calls.
func (self *Cache) AbandonAll() {
	for self.nonpurgeable.len() > 0 {
		self.nonpurgeable.at(self.nonpurgeable.len() - 1).Abandon()
	}
	for self.purgeable.len() > 0 {
		self.purgeable.peek().Abandon()
	}
}

// PurgeAllUnlocked drains only the purgeable heap; non-purgeable
// resources are left untouched since someone still holds them.
func (self *Cache) PurgeAllUnlocked() {
	for self.purgeable.len() > 0 {
		self.purgeable.peek().Release()
	}
}
