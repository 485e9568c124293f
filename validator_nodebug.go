//go:build !rescache_debug

package rescache

// validate is a no-op outside of builds tagged rescache_debug; see
// validator_debug.go for the real implementation.
func (self *Cache) validate() {}
