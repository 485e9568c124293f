package rescache

// scratchMap is a ScratchKey -> multiset(Resource) index, bucketed by
// the key's cityhash checksum rather than by the key's own comparable
// struct identity. Several resources can share a scratch key, since
// any of them is an equally valid candidate for reuse; a bucket can
// also hold entries for distinct keys that happen to collide on their
// checksum, so every lookup still compares the full key before
// accepting a candidate.
type scratchMap struct {
	buckets map[uint64][]Resource
}

func newScratchMap() *scratchMap {
	return &scratchMap{buckets: make(map[uint64][]Resource, 64)}
}

func (self *scratchMap) insert(r Resource) {
	key := r.ScratchKey()
	if !key.IsValid() {
		panic("rescache: cannot index a resource with no scratch key")
	}
	h := key.Hash()
	self.buckets[h] = append(self.buckets[h], r)
}

// remove drops one specific resource, identified by identity rather
// than key equality, since several resources can share a key.
func (self *scratchMap) remove(r Resource) {
	h := r.ScratchKey().Hash()
	bucket := self.buckets[h]
	for i, candidate := range bucket {
		if candidate != r {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket[last] = nil
		bucket = bucket[:last]
		if len(bucket) == 0 {
			delete(self.buckets, h)
		} else {
			self.buckets[h] = bucket
		}
		return
	}
}

// countForKey counts resources matching key exactly, filtering out any
// bucket neighbors that only share key's checksum.
func (self *scratchMap) countForKey(key ScratchKey) int {
	n := 0
	for _, r := range self.buckets[key.Hash()] {
		if r.ScratchKey() == key {
			n++
		}
	}
	return n
}

// find returns the first resource matching key for which predicate
// holds, in bucket iteration order, or nil. Candidates that only
// collide with key on checksum are skipped.
func (self *scratchMap) find(key ScratchKey, predicate func(Resource) bool) Resource {
	for _, r := range self.buckets[key.Hash()] {
		if r.ScratchKey() == key && predicate(r) {
			return r
		}
	}
	return nil
}

func (self *scratchMap) count() int {
	n := 0
	for _, bucket := range self.buckets {
		n += len(bucket)
	}
	return n
}
