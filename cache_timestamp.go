package rescache

import "sort"

// nextTimestamp returns the next value from the cache's monotonic
// stamp counter. If the counter has just wrapped back to zero (or this
// is the first call after a reset) and the cache is non-empty, it
// first compacts every resource's timestamp down to a dense
// 0..resourceCount-1 range that preserves their prior relative order.
func (self *Cache) nextTimestamp() uint32 {
	if self.timestamp == 0 && self.GetResourceCount() > 0 {
		self.compactTimestamps()
	}
	t := self.timestamp
	self.timestamp++
	return t
}

// compactTimestamps drains the purgeable heap and copies the
// non-purgeable array, sorts each by current timestamp, merges the two
// sorted sequences, and assigns 0, 1, 2, ... in merge order. It then
// rebuilds both containers so every back-index slot matches the
// resource's new position.
func (self *Cache) compactTimestamps() {
	purge := append([]Resource(nil), self.purgeable.items...)
	nonpurge := append([]Resource(nil), self.nonpurgeable.items...)

	sort.Slice(purge, func(i, j int) bool { return purge[i].Timestamp() < purge[j].Timestamp() })
	sort.Slice(nonpurge, func(i, j int) bool { return nonpurge[i].Timestamp() < nonpurge[j].Timestamp() })

	merged := make([]Resource, 0, len(purge)+len(nonpurge))
	pi, ni := 0, 0
	for pi < len(purge) && ni < len(nonpurge) {
		if purge[pi].Timestamp() <= nonpurge[ni].Timestamp() {
			merged = append(merged, purge[pi])
			pi++
		} else {
			merged = append(merged, nonpurge[ni])
			ni++
		}
	}
	merged = append(merged, purge[pi:]...)
	merged = append(merged, nonpurge[ni:]...)

	var next uint32
	for _, r := range merged {
		r.SetTimestamp(next)
		next++
	}

	self.nonpurgeable.reset()
	for _, r := range nonpurge {
		self.nonpurgeable.add(r)
	}

	self.purgeable.reset()
	for _, r := range purge {
		self.purgeable.insert(r)
	}

	self.timestamp = uint32(len(merged))
}
