package concurrency

import (
	"fmt"
	"sync"
)

// LockManager handles named locks. Ledger operations lock the target
// account (and, when an item is involved, that item) for the duration of
// the decision and mutation, always account before item, so operations on
// the same account serialize and operations on different accounts never
// contend.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// AccountLock returns the mutex guarding a user's financial state.
func (lm *LockManager) AccountLock(userID int64) *sync.Mutex {
	return lm.GetLock(fmt.Sprintf("account:%d", userID))
}

// ItemLock returns the mutex guarding a single inventory item.
// Must only be acquired while holding the owning account's lock.
func (lm *LockManager) ItemLock(itemID int64) *sync.Mutex {
	return lm.GetLock(fmt.Sprintf("item:%d", itemID))
}
