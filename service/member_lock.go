package service

import "sync"

// MemberLocks serializes ledger mutations per member. A member's sessions
// and balances span guilds, so the lock key is the member id alone;
// operations on distinct members proceed in parallel.
type MemberLocks struct {
	locks sync.Map // memberID -> *sync.Mutex
}

func NewMemberLocks() *MemberLocks {
	return &MemberLocks{}
}

// Lock acquires the member's mutex and returns the release func
func (l *MemberLocks) Lock(memberID int64) func() {
	v, _ := l.locks.LoadOrStore(memberID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
