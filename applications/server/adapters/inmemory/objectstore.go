package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/donmikel/logbay/applications/server/interfaces"
)

const defaultCapacityInBytes = 100 * 1024 * 1024 // 100 Mb

type object struct {
	data []byte
	opts interfaces.PutOptions
}

type inMemoryObjectStore struct {
	objectsByKey map[string]object
	freeSpace    int
	log          log.Logger
	mutex        sync.RWMutex
}

func NewObjectStore(capacityInBytes int, logger log.Logger) interfaces.ObjectStore {
	if capacityInBytes <= 0 {
		capacityInBytes = defaultCapacityInBytes
	}

	return &inMemoryObjectStore{
		objectsByKey: map[string]object{},
		freeSpace:    capacityInBytes,
		log:          logger,
	}
}

func (m *inMemoryObjectStore) Put(ctx context.Context, key string, data []byte, opts interfaces.PutOptions) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Overwriting a key releases the previous object's space first.
	available := m.freeSpace
	if prev, ok := m.objectsByKey[key]; ok {
		available += len(prev.data)
	}
	if len(data) > available {
		return fmt.Errorf("not enough free space")
	}

	m.objectsByKey[key] = object{data: data, opts: opts}
	m.freeSpace = available - len(data)

	level.Info(m.log).Log("msg", "object stored",
		"key", key,
		"content_type", opts.ContentType,
		"size", humanize.Bytes(uint64(len(data))),
		"free_space", humanize.Bytes(uint64(m.freeSpace)),
	)

	return nil
}

// Object returns a stored object's data and options; used by tests and the
// debug read path.
func (m *inMemoryObjectStore) Object(key string) ([]byte, interfaces.PutOptions, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	o, ok := m.objectsByKey[key]
	return o.data, o.opts, ok
}

// Keys returns all stored keys; order is unspecified.
func (m *inMemoryObjectStore) Keys() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	keys := make([]string, 0, len(m.objectsByKey))
	for k := range m.objectsByKey {
		keys = append(keys, k)
	}

	return keys
}
