package memory

import (
	"context"
	"sync"

	domainuser "leihbar/internal/domain/user"
)

// UserDirectory keeps the identity snapshots the engine needs in memory.
type UserDirectory struct {
	mu   sync.RWMutex
	byID map[domainuser.ID]*domainuser.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{byID: make(map[domainuser.ID]*domainuser.User)}
}

func (d *UserDirectory) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domainuser.ErrNotFound
}

// Put seeds or replaces a user entry.
func (d *UserDirectory) Put(u *domainuser.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	clone := *u
	d.byID[u.ID] = &clone
}

var _ domainuser.Directory = (*UserDirectory)(nil)
