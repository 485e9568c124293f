//go:build gtxt

package rescache

import (
	"image"

	"github.com/google/uuid"
)

// textureOverheadBytes for the headless (gtxt) build is exact on 64-bit
// platforms, since image.Alpha's own bookkeeping (slice header, stride
// and rectangle) is fully known, unlike Ebitengine's.
const textureOverheadBytes = 64

// Texture is the headless, CPU-backed [Resource] implementation used
// under the gtxt build tag: a plain *image.Alpha buffer standing in
// for a GPU texture. Same role as the Ebitengine-backed Texture in
// texture_ebiten.go, just without a graphics driver behind it (Pix
// stands in for Image, and WrapTexture takes an *image.Alpha),
// mirroring the corpus's own gtxt/non-gtxt glyph mask split.
type Texture struct {
	ResourceHeader

	DebugID uuid.UUID

	owner *Cache
	pix   *image.Alpha
}

func NewTexture(owner *Cache, width, height int, scratchKey ScratchKey, budgeted bool) *Texture {
	t := &Texture{
		DebugID: uuid.New(),
		owner:   owner,
		pix:     image.NewAlpha(image.Rect(0, 0, width, height)),
	}
	InitResourceHeader(&t.ResourceHeader, scratchKey, budgeted, false)
	owner.Insert(t)
	return t
}

// WrapTexture adopts an externally-owned *image.Alpha as a wrapped
// resource; see the Ebitengine build's WrapTexture for the semantics.
func WrapTexture(owner *Cache, pix *image.Alpha, budgeted bool) *Texture {
	t := &Texture{
		DebugID: uuid.New(),
		owner:   owner,
		pix:     pix,
	}
	InitResourceHeader(&t.ResourceHeader, InvalidScratchKey(), budgeted, true)
	owner.Insert(t)
	return t
}

func (self *Texture) GPUMemorySize() uintptr {
	b := self.pix.Rect
	return uintptr(b.Dx()*b.Dy()) + textureOverheadBytes
}

func (self *Texture) InternalHasPendingIO() bool { return false }

func (self *Texture) Unref() {
	if self.unref() == 0 {
		self.owner.NotifyPurgeable(self)
	}
}

func (self *Texture) Release() {
	owner := self.owner
	owner.Remove(self)
	self.pix = nil
}

func (self *Texture) Abandon() {
	owner := self.owner
	owner.Remove(self)
	self.pix = nil
}

// Pix exposes the wrapped *image.Alpha buffer. It is nil after Release
// or Abandon.
func (self *Texture) Pix() *image.Alpha { return self.pix }
