package rescache

// ChangeUniqueKey sets r's unique key to newKey, or clears it if newKey
// is invalid. If newKey already names a different resource, that
// collision is resolved before r takes over the key: the old holder is
// released outright if it has no scratch key and is purgeable (nothing
// else can find it once the key is gone), or otherwise just detached
// from the key so it survives as a keyless resource.
func (self *Cache) ChangeUniqueKey(r Resource, newKey UniqueKey) {
	if old := r.UniqueKey(); old.IsValid() {
		self.unique.remove(old)
	}

	if newKey.IsValid() {
		if holder := self.unique.find(newKey); holder != nil && holder != r {
			if !holder.ScratchKey().IsValid() && holder.IsPurgeable() {
				holder.Release()
			} else {
				self.unique.remove(newKey)
				holder.SetUniqueKey(InvalidUniqueKey())
			}
		}
		r.SetUniqueKey(newKey)
		self.unique.insert(newKey, r)
	} else {
		r.SetUniqueKey(InvalidUniqueKey())
	}

	self.validate()
}

// RemoveUniqueKey clears r's unique key without evicting it. Whether r
// survives once its external refcount reaches zero is decided later,
// by NotifyPurgeable.
func (self *Cache) RemoveUniqueKey(r Resource) {
	if key := r.UniqueKey(); key.IsValid() {
		self.unique.remove(key)
	}
	r.SetUniqueKey(InvalidUniqueKey())
	self.validate()
}

// FindAndRefUniqueResource looks up the resource currently indexed
// under key, if any, and promotes it to MRU non-purgeable.
func (self *Cache) FindAndRefUniqueResource(key UniqueKey) Resource {
	r := self.unique.find(key)
	if r == nil {
		return nil
	}
	self.RefAndMakeResourceMRU(r)
	return r
}
