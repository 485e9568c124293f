package rescache

// RefAndMakeResourceMRU takes a reference on r and stamps it as the
// most-recently-used resource in the cache. If r was purgeable, it is
// lifted out of the purgeable heap into the non-purgeable array first.
func (self *Cache) RefAndMakeResourceMRU(r Resource) {
	if r.IsPurgeable() {
		self.purgeable.removeAt(r.CacheIndex())
		self.nonpurgeable.add(r)
	}
	r.Ref()
	r.SetTimestamp(self.nextTimestamp())
	self.validate()
}

// NotifyPurgeable is called by a resource itself when its last
// external reference is released. It moves the resource into the
// purgeable heap and then settles its fate; see settlePurgeableFate.
func (self *Cache) NotifyPurgeable(r Resource) {
	if !r.IsPurgeable() {
		panic("rescache: NotifyPurgeable called on a resource with external refs remaining")
	}
	if r.CacheIndex() == -1 {
		panic("rescache: NotifyPurgeable called on a resource not in the cache")
	}

	self.nonpurgeable.remove(r)
	self.purgeable.insert(r)

	self.settlePurgeableFate(r)
}

// settlePurgeableFate decides, in order, whether a resource that is
// already purgeable (already sitting in the purgeable heap) survives:
//
//  1. un-budgeted rescue: an un-budgeted, unwrapped, scratch-keyed
//     resource is re-budgeted and kept if there's headroom for it.
//  2. early exit: a budgeted resource that is still within budget and
//     carries a scratch or unique key is kept as a future hit.
//  3. otherwise it is released immediately.
//
// It's shared between NotifyPurgeable, which calls it right after
// moving a resource into the heap, and ProcessInvalidUniqueKeys, which
// calls it on a resource that was already purgeable but just lost the
// only key keeping it reachable.
func (self *Cache) settlePurgeableFate(r Resource) {
	size := uint64(r.GPUMemorySize())

	if !r.IsBudgeted() && !r.IsWrapped() && r.ScratchKey().IsValid() {
		if self.budgetedBytes+size <= self.maxBytes && self.budgetedCount+1 <= self.maxCount {
			r.MakeBudgeted()
			self.budgetedBytes += size
			self.budgetedCount++
			self.validate()
			return
		}
	}

	if r.IsBudgeted() && !self.overBudget() && (r.ScratchKey().IsValid() || r.UniqueKey().IsValid()) {
		self.validate()
		return
	}

	r.Release()
}

// DidChangeGpuMemorySize reacts to a resource announcing that its byte
// cost changed from oldSize to whatever GPUMemorySize now reports.
// This is accepted at any point the owning thread is executing, not
// only when the cache is otherwise quiescent.
func (self *Cache) DidChangeGpuMemorySize(r Resource, oldSize uint64) {
	newSize := uint64(r.GPUMemorySize())
	if newSize == oldSize {
		return
	}

	self.bytes = applySizeDelta(self.bytes, oldSize, newSize)
	if r.IsBudgeted() {
		self.budgetedBytes = applySizeDelta(self.budgetedBytes, oldSize, newSize)
	}

	self.updateHighWater()
	self.purgeAsNeeded()
	self.validate()
}

func applySizeDelta(total, oldSize, newSize uint64) uint64 {
	if newSize >= oldSize {
		return total + (newSize - oldSize)
	}
	shrink := oldSize - newSize
	if shrink > total {
		panic("rescache: byte accounting underflow")
	}
	return total - shrink
}

// DidChangeBudgetStatus reacts to an external toggle of r's budgeted
// flag, adjusting the budgeted totals accordingly. Toggling on may
// bring the cache over budget, so it re-runs purgeAsNeeded; toggling
// off never does.
func (self *Cache) DidChangeBudgetStatus(r Resource) {
	size := uint64(r.GPUMemorySize())
	if r.IsBudgeted() {
		self.budgetedBytes += size
		self.budgetedCount++
		self.purgeAsNeeded()
	} else {
		self.budgetedBytes -= size
		self.budgetedCount--
	}
	self.validate()
}
