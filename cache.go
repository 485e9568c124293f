package rescache

import "github.com/sirupsen/logrus"

// Default limits, mirroring the corpus's own defaults for this exact
// budget pair (2048 resources, 96 MiB).
const (
	DefaultMaxCount = 2048
	DefaultMaxBytes = 96 * 1024 * 1024
)

// Cache is the single-owner, single-threaded GPU resource cache. Every
// exported method must run on the goroutine that owns the cache; see
// the package doc for the full concurrency model.
type Cache struct {
	nonpurgeable nonpurgeableArray
	purgeable    purgeableHeap
	scratch      *scratchMap
	unique       *uniqueHash

	timestamp uint32

	bytes         uint64
	budgetedBytes uint64
	budgetedCount int

	maxCount int
	maxBytes uint64

	highWaterCount int
	highWaterBytes uint64

	overBudgetCB   func(interface{})
	overBudgetData interface{}

	validationSample int
	log              *logrus.Logger
}

// NewCache builds an empty cache bounded by maxCount resources and
// maxBytes of GPU memory. Negative maxCount is a programming mistake
// and panics, matching the corpus's own constructor precedent
// (etxt's NewDefaultCache panics on a negative byte size).
func NewCache(maxCount int, maxBytes uint64) *Cache {
	if maxCount < 0 {
		panic("rescache: maxCount < 0")
	}
	return &Cache{
		scratch:  newScratchMap(),
		unique:   newUniqueHash(),
		maxCount: maxCount,
		maxBytes: maxBytes,
		log:      logrus.StandardLogger(),
	}
}

// NewCacheWithDefaults builds a cache using the package's default
// limits: 2048 resources, 96 MiB.
func NewCacheWithDefaults() *Cache {
	return NewCache(DefaultMaxCount, DefaultMaxBytes)
}

// SetLogger overrides the logger used for validator failures (debug
// builds only) and over-budget notifications. The default is logrus's
// standard logger.
func (self *Cache) SetLogger(log *logrus.Logger) {
	if log == nil {
		panic("rescache: nil logger")
	}
	self.log = log
}

// SetLimits updates the byte/count budgets and immediately purges if
// the new limits are already exceeded.
func (self *Cache) SetLimits(maxCount int, maxBytes uint64) {
	if maxCount < 0 {
		panic("rescache: maxCount < 0")
	}
	self.maxCount = maxCount
	self.maxBytes = maxBytes
	self.purgeAsNeeded()
}

// GetResourceCount returns the total number of resources currently
// held, purgeable and non-purgeable combined.
func (self *Cache) GetResourceCount() int { return self.nonpurgeable.len() + self.purgeable.len() }

// GetBudgetedResourceCount returns the count of budgeted resources.
func (self *Cache) GetBudgetedResourceCount() int { return self.budgetedCount }

// GetBytes returns the total GPU memory tracked across all resources.
func (self *Cache) GetBytes() uint64 { return self.bytes }

// GetBudgetedBytes returns the GPU memory tracked across budgeted
// resources only.
func (self *Cache) GetBudgetedBytes() uint64 { return self.budgetedBytes }

// HighWaterCount returns the largest GetResourceCount has ever been.
func (self *Cache) HighWaterCount() int { return self.highWaterCount }

// HighWaterBytes returns the largest GetBytes has ever been.
func (self *Cache) HighWaterBytes() uint64 { return self.highWaterBytes }

// SetOverBudgetCallback installs the hook invoked, at most once per
// purge pass, when the cache remains over budget after purging every
// purgeable resource. data is passed back to cb verbatim.
func (self *Cache) SetOverBudgetCallback(cb func(interface{}), data interface{}) {
	self.overBudgetCB = cb
	self.overBudgetData = data
}

func (self *Cache) overBudget() bool {
	return self.budgetedCount > self.maxCount || self.budgetedBytes > self.maxBytes
}

func (self *Cache) updateHighWater() {
	if n := self.GetResourceCount(); n > self.highWaterCount {
		self.highWaterCount = n
	}
	if self.bytes > self.highWaterBytes {
		self.highWaterBytes = self.bytes
	}
}
