package memstore

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/mwerner/flatkv/lib/store"
)

type storeImpl struct {
	data *xsync.MapOf[string, any]
}

// New creates a new in-memory document store. Data lives entirely in
// process memory and is not persisted between restarts; per-key atomicity
// comes from the concurrent map's Compute primitive instead of a file lock.
func New() store.IDocumentStore {
	return &storeImpl{
		data: xsync.NewMapOf[string, any](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (any, bool, error) {
	value, loaded := s.data.Load(key)
	if !loaded {
		return nil, false, nil
	}
	// hand out a copy, the live value must never escape the map
	return store.CloneValue(value), true, nil
}

func (s *storeImpl) Set(key string, value any) error {
	s.data.Store(key, store.CloneValue(value))
	return nil
}

func (s *storeImpl) Update(key string, partial map[string]any) error {
	s.data.Compute(key, func(old any, loaded bool) (any, bool) {
		// copy-on-write: build a fresh record instead of mutating the
		// stored one, concurrent readers may still hold the old value
		replacement := make(map[string]any, len(partial))
		if loaded {
			if m, ok := store.AsMapping(old); ok {
				for f, v := range m {
					replacement[f] = v
				}
			}
		}
		for f, v := range partial {
			replacement[f] = store.CloneValue(v)
		}
		return replacement, false
	})
	return nil
}

func (s *storeImpl) Delete(key string) error {
	s.data.Delete(key)
	return nil
}

func (s *storeImpl) Increment(key, field string, delta int64) (int64, error) {
	var value int64
	var err error

	s.data.Compute(key, func(old any, loaded bool) (any, bool) {
		if !loaded {
			old = map[string]any{}
		}
		record, ok := store.AsMapping(old)
		if !ok {
			err = store.NewErrorf(store.RetCInvalidFieldType,
				"cannot increment field on non-mapping value for key %q", key)
			return old, false
		}
		current, ok := store.CoerceInt64(record[field])
		if !ok {
			err = store.NewErrorf(store.RetCInvalidFieldType,
				"field %q of key %q holds a non-integer value", field, key)
			return old, false
		}
		value = current + delta
		replacement := make(map[string]any, len(record)+1)
		for f, v := range record {
			replacement[f] = v
		}
		replacement[field] = value
		return replacement, false
	})

	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	_, loaded := s.data.Load(key)
	return loaded, nil
}

func (s *storeImpl) Keys() ([]string, error) {
	keys := make([]string, 0, s.data.Size())
	s.data.Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

func (s *storeImpl) Clear() error {
	s.data.Clear()
	return nil
}

func (s *storeImpl) Info() (store.StoreInfo, error) {
	return store.StoreInfo{
		Backend: store.BackendMemory,
		NumKeys: s.data.Size(),
	}, nil
}
