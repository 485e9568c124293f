package rescache

// mockResource is the Resource used across rescache's own tests: a
// bare-bones stand-in with a settable size and no real GPU allocation,
// the way the corpus's own cache tests build synthetic entries rather
// than real glyph masks wherever the mask contents don't matter.
type mockResource struct {
	ResourceHeader
	owner     *Cache
	size      uintptr
	pendingIO bool
	released  bool
	abandoned bool
}

func newMockResource(owner *Cache, size uintptr, scratchKey ScratchKey, budgeted, wrapped bool) *mockResource {
	r := &mockResource{owner: owner, size: size}
	InitResourceHeader(&r.ResourceHeader, scratchKey, budgeted, wrapped)
	return r
}

func (self *mockResource) GPUMemorySize() uintptr     { return self.size }
func (self *mockResource) InternalHasPendingIO() bool { return self.pendingIO }

// resize changes the mock's reported size and tells owner about it,
// the way a real resource would after re-allocating at a new size.
func (self *mockResource) resize(newSize uintptr) {
	old := self.size
	self.size = newSize
	self.owner.DidChangeGpuMemorySize(self, uint64(old))
}

func (self *mockResource) Release() {
	if self.released {
		panic("rescache: test double released twice")
	}
	self.released = true
	self.owner.Remove(self)
}

func (self *mockResource) Abandon() {
	self.abandoned = true
	self.owner.Remove(self)
}

// unrefExternal drops the one external ref this test double starts
// with, notifying its owner if that was the last one. Real resources
// expose this as their own Unref (see Texture.Unref); the mock keeps
// the same shape under a test-only name.
func (self *mockResource) unrefExternal() {
	if self.unref() == 0 {
		self.owner.NotifyPurgeable(self)
	}
}
