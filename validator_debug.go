//go:build rescache_debug

package rescache

import "github.com/sirupsen/logrus"

// shouldValidate samples validation frequency as the cache grows:
// every mutation is validated below 64 resources, then validation
// frequency halves each time the resource count doubles past that, so
// a large cache doesn't pay full O(n) validation on every single
// insert.
func (self *Cache) shouldValidate() bool {
	self.validationSample++
	n := self.GetResourceCount()
	if n < 64 {
		return true
	}
	stride := 1
	for shifted := n; shifted >= 64; shifted >>= 1 {
		stride <<= 1
	}
	return self.validationSample%stride == 0
}

// validate recomputes every tracked total from scratch and panics if
// any of them disagrees with what the cache has been maintaining
// incrementally. It only exists in builds tagged rescache_debug; the
// non-debug build (validator_nodebug.go) makes it a no-op so release
// builds pay nothing for it.
func (self *Cache) validate() {
	if !self.shouldValidate() {
		return
	}

	var bytes, budgetedBytes uint64
	var budgetedCount, scratchOrCouldBe, uniqueCount int

	visit := func(r Resource, purgeable bool) {
		idx := r.CacheIndex()
		if purgeable {
			if idx < 0 || idx >= self.purgeable.len() || self.purgeable.items[idx] != r {
				self.fatal("resource's cache index does not match its position in the purgeable heap")
			}
		} else {
			if idx < 0 || idx >= self.nonpurgeable.len() || self.nonpurgeable.items[idx] != r {
				self.fatal("resource's cache index does not match its position in the nonpurgeable array")
			}
		}

		bytes += uint64(r.GPUMemorySize())
		if r.IsBudgeted() {
			budgetedBytes += uint64(r.GPUMemorySize())
			budgetedCount++
		}
		if !r.IsWrapped() && r.ScratchKey().IsValid() {
			scratchOrCouldBe++
		}
		if r.UniqueKey().IsValid() {
			uniqueCount++
		}
	}

	for _, r := range self.nonpurgeable.items {
		visit(r, false)
	}
	for _, r := range self.purgeable.items {
		visit(r, true)
	}

	if bytes != self.bytes {
		self.fatal("fBytes diverged from recomputation")
	}
	if budgetedBytes != self.budgetedBytes {
		self.fatal("budgeted bytes diverged from recomputation")
	}
	if budgetedCount != self.budgetedCount {
		self.fatal("budgeted count diverged from recomputation")
	}
	if self.scratch.count() != scratchOrCouldBe {
		self.fatal("scratch map count diverged from resource count")
	}
	if self.unique.count() != uniqueCount {
		self.fatal("unique hash count diverged from resource count")
	}
	if self.highWaterCount < self.GetResourceCount() {
		self.fatal("high water count is not monotonic")
	}
	if self.highWaterBytes < self.bytes {
		self.fatal("high water bytes is not monotonic")
	}
}

func (self *Cache) fatal(msg string) {
	self.log.WithFields(logrus.Fields{
		"bytes":         self.bytes,
		"budgetedBytes": self.budgetedBytes,
		"budgetedCount": self.budgetedCount,
	}).Error("rescache: validator: " + msg)
	panic("rescache: validator: " + msg)
}
