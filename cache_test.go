package rescache

import "testing"

// checkInvariants re-walks both containers and recomputes every
// tracked total, the same way validator_debug.go does, but as a plain
// test helper so it runs regardless of the rescache_debug build tag.
func checkInvariants(t *testing.T, c *Cache) {
	t.Helper()

	seenTimestamps := make(map[uint32]bool)
	var bytes, budgetedBytes uint64
	var budgetedCount int

	for i, r := range c.nonpurgeable.items {
		if r.CacheIndex() != i {
			t.Fatalf("nonpurgeable[%d] back-index is %d", i, r.CacheIndex())
		}
		if r.IsPurgeable() {
			t.Fatalf("nonpurgeable array holds a purgeable resource")
		}
	}
	for i, r := range c.purgeable.items {
		if r.CacheIndex() != i {
			t.Fatalf("purgeable[%d] back-index is %d", i, r.CacheIndex())
		}
		if !r.IsPurgeable() {
			t.Fatalf("purgeable heap holds a non-purgeable resource")
		}
		if i > 0 {
			parent := (i - 1) / 2
			if c.purgeable.items[parent].Timestamp() > r.Timestamp() {
				t.Fatalf("heap property violated at index %d", i)
			}
		}
	}

	visit := func(r Resource) {
		if seenTimestamps[r.Timestamp()] {
			t.Fatalf("duplicate timestamp %d", r.Timestamp())
		}
		seenTimestamps[r.Timestamp()] = true

		bytes += uint64(r.GPUMemorySize())
		if r.IsBudgeted() {
			budgetedBytes += uint64(r.GPUMemorySize())
			budgetedCount++
		}
		if r.UniqueKey().IsValid() && isPureScratch(r) {
			t.Fatalf("resource is simultaneously pure scratch and uniquely keyed")
		}
	}
	for _, r := range c.nonpurgeable.items {
		visit(r)
	}
	for _, r := range c.purgeable.items {
		visit(r)
	}

	if bytes != c.bytes {
		t.Fatalf("fBytes = %d, recomputed %d", c.bytes, bytes)
	}
	if budgetedBytes != c.budgetedBytes {
		t.Fatalf("budgetedBytes = %d, recomputed %d", c.budgetedBytes, budgetedBytes)
	}
	if budgetedCount != c.budgetedCount {
		t.Fatalf("budgetedCount = %d, recomputed %d", c.budgetedCount, budgetedCount)
	}
}

func TestInsertAndRemoveBasics(t *testing.T) {
	c := NewCache(10, 1000)
	r := newMockResource(c, 100, InvalidScratchKey(), true, false)
	c.Insert(r)
	checkInvariants(t, c)

	if c.GetResourceCount() != 1 {
		t.Fatalf("expected 1 resource, got %d", c.GetResourceCount())
	}
	if c.GetBytes() != 100 {
		t.Fatalf("expected 100 bytes, got %d", c.GetBytes())
	}
	if c.GetBudgetedBytes() != 100 || c.GetBudgetedResourceCount() != 1 {
		t.Fatal("expected resource to be counted as budgeted")
	}

	c.Remove(r)
	checkInvariants(t, c)
	if c.GetResourceCount() != 0 || c.GetBytes() != 0 {
		t.Fatal("expected empty cache after remove")
	}
}

func TestInsertRejectsAlreadyCachedResource(t *testing.T) {
	c := NewCache(10, 1000)
	r := newMockResource(c, 100, InvalidScratchKey(), true, false)
	c.Insert(r)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic inserting an already-cached resource")
		}
	}()
	c.Insert(r)
}

func TestRemoveRejectsUnknownResource(t *testing.T) {
	c := NewCache(10, 1000)
	r := newMockResource(c, 100, InvalidScratchKey(), true, false)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic removing a resource never inserted")
		}
	}()
	c.Remove(r)
}

// A resource released with a valid scratch key is not destroyed. It
// becomes purgeable and is handed straight back out to a later
// scratch lookup for the same key, promoted to MRU non-purgeable.
func TestScenarioScratchReuse(t *testing.T) {
	c := NewCache(10, 1000)
	key := NewScratchKey(NewResourceType(), 8, 8)

	a := newMockResource(c, 100, key, true, false)
	c.Insert(a)
	checkInvariants(t, c)

	a.unrefExternal() // last external ref released -> notifyPurgeable
	checkInvariants(t, c)
	if !a.IsPurgeable() {
		t.Fatal("expected resource to be purgeable after last unref")
	}
	if a.released {
		t.Fatal("expected the early-exit path to keep the resource, not release it")
	}

	beforeStamp := a.Timestamp()
	found := c.FindAndRefScratchResource(key, 0)
	if found != a {
		t.Fatal("expected scratch lookup to find the recycled resource")
	}
	if found.IsPurgeable() {
		t.Fatal("expected the found resource to be promoted to non-purgeable")
	}
	if found.Timestamp() <= beforeStamp {
		t.Fatal("expected promotion to stamp a newer timestamp")
	}
	checkInvariants(t, c)
}

// With three same-size resources and room for only two, the oldest
// purgeable resource is evicted as soon as the budget is exceeded, and
// the two newer ones survive.
func TestScenarioEvictionByBudget(t *testing.T) {
	c := NewCache(2, 1000)
	// scratch-keyed, so each stays cached once purgeable instead of
	// being released on its last unref
	key := NewScratchKey(NewResourceType(), 400)

	a := newMockResource(c, 400, key, true, false)
	c.Insert(a)
	a.unrefExternal()

	b := newMockResource(c, 400, key, true, false)
	c.Insert(b)
	b.unrefExternal()

	cc := newMockResource(c, 400, key, true, false)
	c.Insert(cc)
	cc.unrefExternal()

	checkInvariants(t, c)

	if !a.released {
		t.Fatal("expected the oldest purgeable resource (a) to have been released")
	}
	if b.released || cc.released {
		t.Fatal("expected b and c to survive")
	}
	if c.GetBudgetedResourceCount() != 2 {
		t.Fatalf("expected budgeted count 2, got %d", c.GetBudgetedResourceCount())
	}
	if c.GetBudgetedBytes() != 800 {
		t.Fatalf("expected budgeted bytes 800, got %d", c.GetBudgetedBytes())
	}
}

// Assigning a unique key that already names a purgeable, scratch-less
// resource releases that old holder and hands the key over to the new
// resource.
func TestScenarioUniqueKeyCollisionEviction(t *testing.T) {
	c := NewCache(10, 10000)
	u := NewUniqueKey(NewKeyDomain(), 1)

	a := newMockResource(c, 100, InvalidScratchKey(), true, false)
	c.Insert(a)
	c.ChangeUniqueKey(a, u)
	a.unrefExternal()
	if !a.IsPurgeable() {
		t.Fatal("expected a to be purgeable (kept alive only by its unique key)")
	}
	checkInvariants(t, c)

	b := newMockResource(c, 100, InvalidScratchKey(), true, false)
	c.Insert(b)

	c.ChangeUniqueKey(b, u)
	checkInvariants(t, c)

	if !a.released {
		t.Fatal("expected a to be released when b took over its unique key")
	}
	if c.FindAndRefUniqueResource(u) != b {
		t.Fatal("expected the unique key to now resolve to b")
	}
}

// An un-budgeted, scratch-keyed resource is promoted to budgeted and
// kept, rather than destroyed, when its last external ref is released
// and there is headroom for it.
func TestScenarioUnbudgetedRescue(t *testing.T) {
	c := NewCache(10, 1000)
	key := NewScratchKey(NewResourceType(), 1)

	a := newMockResource(c, 10, key, false, false)
	c.Insert(a)
	checkInvariants(t, c)

	a.unrefExternal()
	checkInvariants(t, c)

	if !a.IsBudgeted() {
		t.Fatal("expected the un-budgeted rescue path to make a budgeted")
	}
	if a.released {
		t.Fatal("expected a to survive via the rescue path")
	}
	if c.GetBudgetedBytes() != 10 || c.GetBudgetedResourceCount() != 1 {
		t.Fatal("expected budgeted totals to reflect the rescued resource")
	}
}

// Invalidating a unique key clears it from the resource that carried
// it and from the unique index, without evicting a resource that is
// still externally held.
func TestScenarioInvalidation(t *testing.T) {
	c := NewCache(10, 1000)
	u := NewUniqueKey(NewKeyDomain(), 42)

	a := newMockResource(c, 10, InvalidScratchKey(), true, false)
	c.Insert(a)
	c.ChangeUniqueKey(a, u)
	checkInvariants(t, c)

	c.ProcessInvalidUniqueKeys([]InvalidationMessage{{Key: u}})
	checkInvariants(t, c)

	if a.UniqueKey().IsValid() {
		t.Fatal("expected a's unique key to be cleared")
	}
	if c.FindAndRefUniqueResource(u) != nil {
		t.Fatal("expected the unique hash to no longer resolve the key")
	}
	if a.CacheIndex() == -1 || a.IsPurgeable() {
		t.Fatal("expected a to remain non-purgeable, still externally held")
	}
}

// Invalidating the key of a resource that is already purgeable and
// kept alive solely by that key releases it immediately, rather than
// leaving a keyless, unreachable resource sitting in the purgeable
// heap still charging against the budget.
func TestProcessInvalidUniqueKeysReleasesNowKeylessPurgeableResource(t *testing.T) {
	c := NewCache(10, 1000)
	u := NewUniqueKey(NewKeyDomain(), 7)

	a := newMockResource(c, 10, InvalidScratchKey(), true, false)
	c.Insert(a)
	c.ChangeUniqueKey(a, u)
	a.unrefExternal()
	if !a.IsPurgeable() {
		t.Fatal("expected a to be purgeable, kept alive only by its unique key")
	}
	checkInvariants(t, c)

	c.ProcessInvalidUniqueKeys([]InvalidationMessage{{Key: u}})
	checkInvariants(t, c)

	if !a.released {
		t.Fatal("expected the now-keyless purgeable resource to be released")
	}
	if c.GetResourceCount() != 0 {
		t.Fatalf("expected the cache to be empty, got %d resources", c.GetResourceCount())
	}
}

func TestProcessInvalidUniqueKeysIgnoresUnknownKeys(t *testing.T) {
	c := NewCache(10, 1000)
	unknown := NewUniqueKey(NewKeyDomain(), 999)
	// must not panic
	c.ProcessInvalidUniqueKeys([]InvalidationMessage{{Key: unknown}})
	checkInvariants(t, c)
}

func TestChangeUniqueKeyRoundTrip(t *testing.T) {
	c := NewCache(10, 1000)
	u := NewUniqueKey(NewKeyDomain(), 7)
	r := newMockResource(c, 10, InvalidScratchKey(), true, false)
	c.Insert(r)

	before := c.GetResourceCount()
	c.ChangeUniqueKey(r, u)
	c.ChangeUniqueKey(r, InvalidUniqueKey())

	if r.UniqueKey().IsValid() {
		t.Fatal("expected r to end up without a unique key")
	}
	if c.FindAndRefUniqueResource(u) != nil {
		t.Fatal("expected the unique hash to no longer contain u")
	}
	if c.GetResourceCount() != before {
		t.Fatal("expected round trip to leave cache size unchanged")
	}
}

func TestReleaseAllEmptiesEverything(t *testing.T) {
	c := NewCache(10, 1000)
	a := newMockResource(c, 10, InvalidScratchKey(), true, false)
	c.Insert(a)
	b := newMockResource(c, 10, InvalidScratchKey(), true, false)
	c.Insert(b)
	b.unrefExternal()

	c.ReleaseAll()

	if c.GetResourceCount() != 0 {
		t.Fatalf("expected 0 resources, got %d", c.GetResourceCount())
	}
	if c.GetBytes() != 0 || c.GetBudgetedBytes() != 0 || c.GetBudgetedResourceCount() != 0 {
		t.Fatal("expected all counters to be zero")
	}
	if c.scratch.count() != 0 || c.unique.count() != 0 {
		t.Fatal("expected scratch map and unique hash to be empty")
	}
	if !a.released || !b.released {
		t.Fatal("expected both resources to have been released")
	}
}

func TestSetLimitsTriggersImmediatePurge(t *testing.T) {
	c := NewCache(10, 10000)
	key := NewScratchKey(NewResourceType(), 500)
	a := newMockResource(c, 500, key, true, false)
	c.Insert(a)
	a.unrefExternal()
	b := newMockResource(c, 500, key, true, false)
	c.Insert(b)
	b.unrefExternal()

	c.SetLimits(10, 600)

	if !a.released {
		t.Fatal("expected tightening the byte limit to purge the oldest purgeable resource")
	}
	if c.GetBudgetedBytes() > 600 {
		t.Fatalf("expected to be within the new byte limit, got %d", c.GetBudgetedBytes())
	}
}

func TestOverBudgetCallbackFiresOnceWhenPurgingIsNotEnough(t *testing.T) {
	c := NewCache(10, 100)
	calls := 0
	pinned := newMockResource(c, 500, InvalidScratchKey(), true, false)
	c.Insert(pinned) // stays non-purgeable: nothing to evict

	c.SetOverBudgetCallback(func(interface{}) { calls++ }, nil)
	c.SetLimits(10, 50)

	if calls != 1 {
		t.Fatalf("expected over-budget callback to fire exactly once, got %d", calls)
	}
}

func TestDidChangeGpuMemorySizeUpdatesTotalsAndPurges(t *testing.T) {
	c := NewCache(10, 100)
	r := newMockResource(c, 10, NewScratchKey(NewResourceType(), 10), true, false)
	c.Insert(r)
	r.unrefExternal()

	r.resize(200)
	checkInvariants(t, c)

	if !r.released {
		t.Fatal("expected growing past budget to purge the only purgeable resource")
	}
}
