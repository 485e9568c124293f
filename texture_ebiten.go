//go:build !gtxt

package rescache

import (
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// textureOverheadBytes approximates the mipmap and driver bookkeeping
// Ebitengine keeps per image beyond the raw pixel buffer. Based on
// Ebitengine internals, same as the corpus's own glyph mask sizing.
const textureOverheadBytes = 192

// Texture is the reference [Resource] implementation: a GPU-backed
// texture wrapping an *ebiten.Image. rescache's texture tests exercise
// the cache against it, and it's a reasonable starting point for
// callers who don't need anything fancier than "a texture with a byte
// size and a scratch/unique key".
type Texture struct {
	ResourceHeader

	// DebugID is a stable identity for log correlation; it plays no
	// role in cache indexing.
	DebugID uuid.UUID

	owner *Cache
	image *ebiten.Image
}

// NewTexture allocates a width x height texture, registers it with
// owner, and returns it already inserted: non-purgeable, with the one
// external reference the caller now holds.
func NewTexture(owner *Cache, width, height int, scratchKey ScratchKey, budgeted bool) *Texture {
	t := &Texture{
		DebugID: uuid.New(),
		owner:   owner,
		image:   ebiten.NewImage(width, height),
	}
	InitResourceHeader(&t.ResourceHeader, scratchKey, budgeted, false)
	owner.Insert(t)
	return t
}

// WrapTexture adopts an externally-owned *ebiten.Image as a wrapped
// resource: it borrows storage it doesn't own, so it is never
// scratch-eligible regardless of scratchKey, and its Release/Abandon
// never call Dispose.
func WrapTexture(owner *Cache, image *ebiten.Image, budgeted bool) *Texture {
	t := &Texture{
		DebugID: uuid.New(),
		owner:   owner,
		image:   image,
	}
	InitResourceHeader(&t.ResourceHeader, InvalidScratchKey(), budgeted, true)
	owner.Insert(t)
	return t
}

func (self *Texture) GPUMemorySize() uintptr {
	w, h := self.image.Size()
	return uintptr(w*h*4) + textureOverheadBytes
}

// InternalHasPendingIO is always false for this reference
// implementation: Ebitengine textures don't have an async upload path
// worth modeling here. A real GPU backend with asynchronous transfers
// would track this per-resource.
func (self *Texture) InternalHasPendingIO() bool { return false }

// Unref drops the caller's external reference. It is not part of the
// Resource contract; it's the entry point resource owners use, and it
// notifies the cache once the last external reference is gone.
func (self *Texture) Unref() {
	if self.unref() == 0 {
		self.owner.NotifyPurgeable(self)
	}
}

func (self *Texture) Release() {
	owner := self.owner
	owner.Remove(self)
	if !self.IsWrapped() && self.image != nil {
		self.image.Dispose()
	}
	self.image = nil
}

func (self *Texture) Abandon() {
	owner := self.owner
	owner.Remove(self)
	self.image = nil
}

// Image exposes the wrapped *ebiten.Image for drawing. It is nil after
// Release or Abandon.
func (self *Texture) Image() *ebiten.Image { return self.image }
