package rescache

import "github.com/sirupsen/logrus"

// purgeAsNeeded releases the oldest purgeable resource (the heap root)
// until either the budget is satisfied or nothing purgeable is left.
// If it's still over budget at that point, the over-budget callback
// fires exactly once; the cache does not loop on it. Any
// NotifyPurgeable calls the callback triggers by dropping external
// refs will cascade through this same machinery on their own.
func (self *Cache) purgeAsNeeded() {
	if !self.overBudget() {
		return
	}

	for self.overBudget() {
		r := self.purgeable.peek()
		if r == nil {
			break
		}
		r.Release()
	}

	if self.overBudget() && self.overBudgetCB != nil {
		self.log.WithFields(logrus.Fields{
			"budgetedCount": self.budgetedCount,
			"maxCount":      self.maxCount,
			"budgetedBytes": self.budgetedBytes,
			"maxBytes":      self.maxBytes,
		}).Warn("rescache: still over budget after purging every purgeable resource")
		self.overBudgetCB(self.overBudgetData)
	}
}
