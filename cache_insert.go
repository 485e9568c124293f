package rescache

// Insert places a newly created resource under the cache's management.
// The resource must not already be in a cache and must not be
// purgeable: its creator is expected to still be holding the one
// external reference that keeps it alive at insertion time.
func (self *Cache) Insert(r Resource) {
	if r.CacheIndex() != -1 {
		panic("rescache: resource already in cache")
	}
	if r.IsPurgeable() {
		panic("rescache: cannot insert an already-purgeable resource")
	}

	r.SetTimestamp(self.nextTimestamp())
	self.nonpurgeable.add(r)

	size := uint64(r.GPUMemorySize())
	self.bytes += size
	if r.IsBudgeted() {
		self.budgetedBytes += size
		self.budgetedCount++
	}

	if r.ScratchKey().IsValid() && !r.IsWrapped() {
		self.scratch.insert(r)
	}

	self.updateHighWater()
	self.purgeAsNeeded()
	self.validate()
}
