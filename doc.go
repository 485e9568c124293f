// Package rescache implements an in-process cache for expensive,
// externally-allocated GPU resources: textures, buffers, render targets,
// path ranges. It does not allocate or release GPU memory itself, that
// is the job of whatever creates the values behind the [Resource]
// interface, but it owns everything about when a resource is reused,
// when it is evicted, and how eviction is ordered.
//
// A cache instance is single-owner and single-threaded: every exported
// method is expected to run on whichever goroutine drives the owning
// GPU context, with no internal locking. Callers that hand resources
// across goroutines are responsible for their own synchronization
// upstream of the cache.
//
// The cache indexes resources two ways. A [ScratchKey] groups resources
// that are interchangeable for compatible work, think "an 8x8 R8
// texture", and [Cache.FindAndRefScratchResource] hands back a matching
// resource that no one else holds, optionally one with no pending I/O
// (see [ScratchFlags]). A [UniqueKey] pins
// exactly one resource to a caller-chosen identity, think "the mask for
// glyph 42 of this font at this size", and [Cache.FindAndRefUniqueResource]
// looks it up directly. A resource may carry either, both, or neither.
//
// Eviction runs against two independent budgets, byte count and resource
// count, and only ever touches purgeable resources (no external holder
// remains); non-purgeable resources cannot be evicted out from under
// whoever is holding them. See [Cache.SetLimits] and
// [Cache.SetOverBudgetCallback].
package rescache
