package rescache

import "sync/atomic"

// Resource is the contract a cache-managed object must satisfy.
// The cache only stores, orders and hands back values behind this
// interface; [Texture] is the package's own reference implementation
// of it. See the package doc for the
// concurrency model these methods are assumed to run under.
type Resource interface {
	// GPUMemorySize reports the resource's current byte cost. It may
	// change during the resource's lifetime, but every change must be
	// announced to the owning cache through [Cache.DidChangeGpuMemorySize].
	GPUMemorySize() uintptr

	// IsPurgeable reports whether no external holder retains a
	// reference any more. When true, only the cache's own logical hold
	// remains and the cache is free to release the resource at will.
	IsPurgeable() bool

	// ScratchKey returns the resource's scratch key, or
	// [InvalidScratchKey] if it was never given one. Immutable once set.
	ScratchKey() ScratchKey

	// UniqueKey returns the resource's unique key, or [InvalidUniqueKey].
	// Mutated only through [Cache.ChangeUniqueKey] / [Cache.RemoveUniqueKey].
	UniqueKey() UniqueKey
	SetUniqueKey(UniqueKey)

	// IsBudgeted reports whether the resource counts against the
	// cache's byte/count limits. MakeBudgeted is a one-way toggle the
	// cache's un-budgeted rescue path uses to promote a resource that
	// would otherwise be destroyed on its last external release.
	IsBudgeted() bool
	MakeBudgeted()

	// IsWrapped reports whether the resource borrows external storage.
	// Wrapped resources are never scratch-eligible and never counted
	// as reusable, regardless of their ScratchKey.
	IsWrapped() bool

	// InternalHasRef and InternalHasPendingIO feed the scratch-lookup
	// predicates in [Cache.FindAndRefScratchResource]. They let a
	// caller filter out resources with pending I/O without the cache
	// embedding any I/O knowledge of its own.
	InternalHasRef() bool
	InternalHasPendingIO() bool

	// Timestamp/SetTimestamp and CacheIndex/SetCacheIndex are
	// bookkeeping slots owned by the cache. CacheIndex is -1 whenever
	// the resource is not currently held by any cache.
	Timestamp() uint32
	SetTimestamp(uint32)
	CacheIndex() int
	SetCacheIndex(int)

	// Ref is called by the cache when handing an existing resource back
	// out: a scratch hit, a unique-key hit, or an MRU refresh.
	Ref()

	// Release destroys the underlying GPU allocation and removes the
	// resource from whichever cache holds it; Abandon forgets the
	// allocation (no GPU calls) and does the same removal. Both must
	// tolerate being invoked re-entrantly from within a cache operation
	// (eviction, changeUniqueKey collision resolution, and so on).
	Release()
	Abandon()
}

// ResourceHeader is the bookkeeping struct concrete resource
// implementations embed to satisfy most of the [Resource] contract
// without hand-rolling the cache's back-pointer slots on every type.
// Per the design notes, these slots live inside the resource rather
// than in a side table, which is what makes O(1) array removal and
// O(log n) heap removal possible.
type ResourceHeader struct {
	scratchKey ScratchKey
	uniqueKey  UniqueKey
	budgeted   bool
	wrapped    bool
	timestamp  uint32
	cacheIndex int
	extRefs    int32
}

// InitResourceHeader must be called once, from the concrete type's
// constructor, before the resource is ever inserted into a cache.
func InitResourceHeader(h *ResourceHeader, scratchKey ScratchKey, budgeted, wrapped bool) {
	h.scratchKey = scratchKey
	h.uniqueKey = InvalidUniqueKey()
	h.budgeted = budgeted
	h.wrapped = wrapped
	h.cacheIndex = -1
	h.extRefs = 1
}

func (self *ResourceHeader) ScratchKey() ScratchKey   { return self.scratchKey }
func (self *ResourceHeader) UniqueKey() UniqueKey     { return self.uniqueKey }
func (self *ResourceHeader) SetUniqueKey(k UniqueKey) { self.uniqueKey = k }
func (self *ResourceHeader) IsBudgeted() bool         { return self.budgeted }
func (self *ResourceHeader) MakeBudgeted()            { self.budgeted = true }
func (self *ResourceHeader) IsWrapped() bool          { return self.wrapped }
func (self *ResourceHeader) Timestamp() uint32        { return self.timestamp }
func (self *ResourceHeader) SetTimestamp(t uint32)    { self.timestamp = t }
func (self *ResourceHeader) CacheIndex() int          { return self.cacheIndex }
func (self *ResourceHeader) SetCacheIndex(i int)      { self.cacheIndex = i }

func (self *ResourceHeader) IsPurgeable() bool    { return atomic.LoadInt32(&self.extRefs) == 0 }
func (self *ResourceHeader) InternalHasRef() bool { return atomic.LoadInt32(&self.extRefs) > 0 }
func (self *ResourceHeader) Ref()                 { atomic.AddInt32(&self.extRefs, 1) }

// unref drops one external reference and returns the resulting count.
// It is deliberately unexported: the cache never calls it, only a
// concrete resource's own exported Unref (see [Texture.Unref]) does,
// typically followed by a call to [Cache.NotifyPurgeable] once the
// count reaches zero.
func (self *ResourceHeader) unref() int32 {
	return atomic.AddInt32(&self.extRefs, -1)
}
