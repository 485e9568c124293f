package rescache

// uniqueHash is a UniqueKey -> Resource index, bucketed by the key's
// cityhash checksum rather than by the key's own comparable struct
// identity. Unlike scratchMap it is one-to-one: insertion of a key
// already present is a contract violation, and the cache is
// responsible for resolving any collision (see Cache.ChangeUniqueKey)
// before ever calling insert. A checksum bucket can hold entries for
// more than one distinct key, so every lookup compares the full key
// before accepting a match.
type uniqueHash struct {
	buckets map[uint64][]uniqueEntry
}

type uniqueEntry struct {
	key UniqueKey
	res Resource
}

func newUniqueHash() *uniqueHash {
	return &uniqueHash{buckets: make(map[uint64][]uniqueEntry, 64)}
}

func (self *uniqueHash) insert(key UniqueKey, r Resource) {
	if !key.IsValid() {
		panic("rescache: cannot index a resource with no unique key")
	}
	h := key.Hash()
	for _, e := range self.buckets[h] {
		if e.key == key {
			panic("rescache: duplicate unique key insertion")
		}
	}
	self.buckets[h] = append(self.buckets[h], uniqueEntry{key: key, res: r})
}

func (self *uniqueHash) remove(key UniqueKey) {
	h := key.Hash()
	bucket := self.buckets[h]
	for i, e := range bucket {
		if e.key != key {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket[last] = uniqueEntry{}
		bucket = bucket[:last]
		if len(bucket) == 0 {
			delete(self.buckets, h)
		} else {
			self.buckets[h] = bucket
		}
		return
	}
}

func (self *uniqueHash) find(key UniqueKey) Resource {
	for _, e := range self.buckets[key.Hash()] {
		if e.key == key {
			return e.res
		}
	}
	return nil
}

func (self *uniqueHash) count() int {
	n := 0
	for _, bucket := range self.buckets {
		n += len(bucket)
	}
	return n
}
