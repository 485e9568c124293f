package rescache

// ScratchFlags narrows a scratch-resource lookup's tolerance for
// pending I/O on the candidate it returns.
type ScratchFlags uint8

const (
	// PreferNoPendingIO tries to find a candidate with no pending I/O
	// first, but falls back to any matching candidate otherwise.
	PreferNoPendingIO ScratchFlags = 1 << iota
	// RequireNoPendingIO fails the lookup outright if no candidate
	// without pending I/O exists, rather than falling back.
	RequireNoPendingIO
)

func isPureScratch(r Resource) bool {
	return !r.IsWrapped() && r.ScratchKey().IsValid() && !r.UniqueKey().IsValid()
}

func scratchCandidateNoIO(r Resource) bool {
	return !r.InternalHasRef() && isPureScratch(r) && !r.InternalHasPendingIO()
}

func scratchCandidateAny(r Resource) bool {
	return !r.InternalHasRef() && isPureScratch(r)
}

// FindAndRefScratchResource looks up a resource compatible with key.
// When either I/O flag is set, it tries a no-pending-I/O candidate
// first; if RequireNoPendingIO was set and that missed, it gives up;
// otherwise it falls back to any matching candidate. A hit is promoted
// to MRU non-purgeable before it is returned, exactly as
// [Cache.RefAndMakeResourceMRU] does.
func (self *Cache) FindAndRefScratchResource(key ScratchKey, flags ScratchFlags) Resource {
	if flags&(PreferNoPendingIO|RequireNoPendingIO) != 0 {
		if r := self.scratch.find(key, scratchCandidateNoIO); r != nil {
			self.RefAndMakeResourceMRU(r)
			return r
		}
		if flags&RequireNoPendingIO != 0 {
			return nil
		}
	}

	r := self.scratch.find(key, scratchCandidateAny)
	if r == nil {
		return nil
	}
	self.RefAndMakeResourceMRU(r)
	return r
}
