package rescache

import "testing"

// TestTimestampCompactionOnWrap sets up five resources at sparse
// timestamps, two of them purgeable, then forces the counter back to
// zero to simulate a wrap. The next nextTimestamp() call must renumber
// every resource to a dense 0..4 range that preserves relative order,
// then hand back 5.
func TestTimestampCompactionOnWrap(t *testing.T) {
	c := NewCache(10, 10000)

	stamps := []uint32{3, 7, 11, 15, 19}
	purgeableIdx := map[int]bool{1: true, 3: true} // resources at timestamps 7 and 15

	resources := make([]*mockResource, len(stamps))
	for i, ts := range stamps {
		r := newMockResource(c, 10, InvalidScratchKey(), true, false)
		r.SetTimestamp(ts)
		if purgeableIdx[i] {
			r.unref() // drop to zero external refs so IsPurgeable holds
			c.purgeable.insert(r)
		} else {
			c.nonpurgeable.add(r)
		}
		// the containers are filled directly rather than through
		// Insert, so the totals Insert maintains are kept by hand
		c.bytes += uint64(r.GPUMemorySize())
		c.budgetedBytes += uint64(r.GPUMemorySize())
		c.budgetedCount++
		resources[i] = r
	}

	c.timestamp = 0 // force the wrap condition

	next := c.nextTimestamp()
	if next != 5 {
		t.Fatalf("expected the compacting call to return 5, got %d", next)
	}

	for i, r := range resources {
		if r.Timestamp() != uint32(i) {
			t.Fatalf("resource %d: expected compacted timestamp %d, got %d", i, i, r.Timestamp())
		}
	}

	checkInvariants(t, c)

	again := c.nextTimestamp()
	if again != 6 {
		t.Fatalf("expected the following call to return 6, got %d", again)
	}
}

func TestNextTimestampWithoutWrapJustIncrements(t *testing.T) {
	c := NewCache(10, 10000)
	first := c.nextTimestamp()
	second := c.nextTimestamp()
	if second != first+1 {
		t.Fatalf("expected consecutive timestamps, got %d then %d", first, second)
	}
}
