package rescache

// InvalidationMessage names a unique key that a resource-producing
// subsystem has decided is stale. It is the payload rescache expects
// from whatever invalidation bus a caller polls; rescache has no
// opinion on how those messages get delivered, only on how a received
// batch is applied.
type InvalidationMessage struct {
	Key UniqueKey
}

// ProcessInvalidUniqueKeys applies a batch of invalidation messages:
// for each key that currently names a resource, that resource's unique
// key is cleared. Messages naming an unknown key are silently ignored.
// If the resource is still externally held, clearing its key is all
// that happens; it remains exactly where it is until its own refcount
// reaches zero and it goes through NotifyPurgeable normally. But if
// the resource was already purgeable, kept alive only by the key that
// just vanished, it is re-settled through the same keep/release
// decision NotifyPurgeable uses, so a now-keyless purgeable resource
// is released immediately instead of lingering in the heap.
func (self *Cache) ProcessInvalidUniqueKeys(msgs []InvalidationMessage) {
	for _, msg := range msgs {
		r := self.unique.find(msg.Key)
		if r == nil {
			continue
		}
		self.RemoveUniqueKey(r)
		if r.IsPurgeable() {
			self.settlePurgeableFate(r)
		}
	}
	self.validate()
}
