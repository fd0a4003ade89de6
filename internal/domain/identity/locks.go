package identity

import (
	"sort"
	"sync"

	"github.com/okian/talentradar/internal/domain/model"
)

// keyLocks serializes resolution per identifier value so two candidates
// sharing an email cannot both observe "absent" and both create.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

// lockKeys returns the lock keys for every identifier ids carries, sorted.
func lockKeys(ids model.Identifiers) []string {
	keys := make([]string, 0, 4)
	if ids.Email != "" {
		keys = append(keys, "email:"+ids.Email)
	}
	if ids.OrcidID != "" {
		keys = append(keys, "orcid:"+ids.OrcidID)
	}
	if ids.GitHubUsername != "" {
		keys = append(keys, "github:"+ids.GitHubUsername)
	}
	if ids.FullName != "" && ids.CurrentAffiliation != "" {
		keys = append(keys, "name:"+ids.FullName+"\x00"+ids.CurrentAffiliation)
	}
	sort.Strings(keys)
	return keys
}

// personKey is the lock key of a stored person. It is always taken after
// the identifier keys and nothing is acquired while holding it.
func personKey(id string) string { return "id:" + id }

// acquire locks every key in order and returns the matching release func.
func (k *keyLocks) acquire(keys []string) func() {
	held := make([]*keyLock, 0, len(keys))
	for _, key := range keys {
		k.mu.Lock()
		l, ok := k.locks[key]
		if !ok {
			l = &keyLock{}
			k.locks[key] = l
		}
		l.refs++
		k.mu.Unlock()

		l.mu.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
		k.mu.Lock()
		for i, key := range keys {
			held[i].refs--
			if held[i].refs == 0 {
				delete(k.locks, key)
			}
		}
		k.mu.Unlock()
	}
}
