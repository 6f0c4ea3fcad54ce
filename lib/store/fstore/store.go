package fstore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/mwerner/flatkv/lib/atomicfile"
	"github.com/mwerner/flatkv/lib/codec"
	"github.com/mwerner/flatkv/lib/lockmgr"
	"github.com/mwerner/flatkv/lib/store"
)

var plog = logger.GetLogger("fstore")

type storeImpl struct {
	path  string
	codec codec.ICodec
	lock  lockmgr.ILockManager
	opts  Options
}

// New creates a file-backed document store persisting to the given path.
// Parent directories are created as needed and a missing document file is
// initialized to the empty document. Initialization runs inside the
// exclusive lock and is therefore idempotent: constructing a store against
// an already-populated path (possibly concurrently) never resets existing
// data.
//
// Any two stores constructed with the same path cooperate correctly, even
// from separate OS processes: correctness depends only on the path, never
// on in-process object identity.
func New(path string, opts Options) (store.IDocumentStore, error) {
	opts = opts.withDefaults()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, store.NewErrorf(store.RetCStorageUnavailable,
			"cannot create storage directory %s: %v", filepath.Dir(path), err)
	}

	s := &storeImpl{
		path:  path,
		codec: opts.Codec,
		lock:  lockmgr.NewFileLockManager(withSuffix(path, ".lock"), opts.LockTimeout),
		opts:  opts,
	}

	if err := s.lock.WithLock(func() error {
		s.sweepTempResidue()
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return s.writeDocument(store.NewDocument())
			}
			return store.NewErrorf(store.RetCStorageUnavailable,
				"cannot stat document file %s: %v", path, err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// withSuffix derives a sibling path by replacing the extension, so
// "users.json" pairs with "users.lock".
func withSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (any, bool, error) {
	getOps.Inc()

	var value any
	var loaded bool
	err := s.read(func(doc store.Document) error {
		value, loaded = doc[key]
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, loaded, nil
}

func (s *storeImpl) Set(key string, value any) error {
	setOps.Inc()

	return s.mutate(func(doc store.Document) error {
		doc[key] = value
		return nil
	})
}

func (s *storeImpl) Update(key string, partial map[string]any) error {
	updateOps.Inc()

	return s.mutate(func(doc store.Document) error {
		doc.MergeFields(key, partial)
		return nil
	})
}

func (s *storeImpl) Delete(key string) error {
	deleteOps.Inc()

	return s.mutate(func(doc store.Document) error {
		delete(doc, key)
		return nil
	})
}

func (s *storeImpl) Increment(key, field string, delta int64) (int64, error) {
	incrementOps.Inc()

	var value int64
	err := s.mutate(func(doc store.Document) error {
		existing, ok := doc[key]
		if !ok {
			existing = map[string]any{}
		}
		record, ok := store.AsMapping(existing)
		if !ok {
			return store.NewErrorf(store.RetCInvalidFieldType,
				"cannot increment field on non-mapping value for key %q", key)
		}
		current, ok := store.CoerceInt64(record[field])
		if !ok {
			return store.NewErrorf(store.RetCInvalidFieldType,
				"field %q of key %q holds a non-integer value", field, key)
		}
		value = current + delta
		record[field] = value
		doc[key] = record
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	var loaded bool
	err := s.read(func(doc store.Document) error {
		_, loaded = doc[key]
		return nil
	})
	return loaded, err
}

func (s *storeImpl) Keys() ([]string, error) {
	var keys []string
	err := s.read(func(doc store.Document) error {
		keys = doc.Keys()
		return nil
	})
	return keys, err
}

func (s *storeImpl) Clear() error {
	return s.mutate(func(doc store.Document) error {
		for k := range doc {
			delete(doc, k)
		}
		return nil
	})
}

func (s *storeImpl) Info() (store.StoreInfo, error) {
	info := store.StoreInfo{
		Backend: store.BackendFile,
		Path:    s.path,
	}

	if fi, err := os.Stat(s.path); err == nil {
		info.SizeBytes = fi.Size()
	}

	err := s.read(func(doc store.Document) error {
		info.NumKeys = len(doc)
		return nil
	})
	return info, err
}

// --------------------------------------------------------------------------
// Critical Section
// --------------------------------------------------------------------------

// mutate runs op as one atomic read-modify-write cycle: acquire the
// exclusive lock, read the full document, apply op in memory, atomically
// rewrite the full document, release the lock. If op returns an error the
// write is skipped and the persisted document is left unchanged. Concurrent
// mutators are totally ordered by lock acquisition order, each one sees the
// fully applied effect of every mutator that acquired the lock before it.
func (s *storeImpl) mutate(op func(doc store.Document) error) error {
	start := time.Now()
	return s.lock.WithLock(func() error {
		lockWait.UpdateDuration(start)

		doc, err := s.readDocument()
		if err != nil {
			return err
		}
		if err := op(doc); err != nil {
			return err
		}
		return s.writeDocument(doc)
	})
}

// read runs op against the current document. With StrictReads the read
// joins the mutators' total order by taking the same lock, otherwise it
// reads lock-free: the atomic writer guarantees the document is whole, but
// it may predate a concurrently in-flight mutation.
func (s *storeImpl) read(op func(doc store.Document) error) error {
	if s.opts.StrictReads {
		start := time.Now()
		return s.lock.WithLock(func() error {
			lockWait.UpdateDuration(start)
			doc, err := s.readDocument()
			if err != nil {
				return err
			}
			return op(doc)
		})
	}

	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	return op(doc)
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// readDocument reads and decodes the entire document file. A missing file
// is treated as the empty document, matching the initialization semantics.
func (s *storeImpl) readDocument() (store.Document, error) {
	data, err := atomicfile.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store.NewDocument(), nil
		}
		return nil, store.NewErrorf(store.RetCStorageUnavailable,
			"cannot read document file %s: %v", s.path, err)
	}

	doc, err := s.codec.Decode(data)
	if err != nil {
		return nil, store.NewErrorf(store.RetCCorruptDocument,
			"document file %s: %v", s.path, err)
	}
	return doc, nil
}

// writeDocument serializes and atomically replaces the entire document
// file. If serialization fails no write occurs and the previous file is
// untouched.
func (s *storeImpl) writeDocument(doc store.Document) error {
	data, err := s.codec.Encode(doc)
	if err != nil {
		return store.NewErrorf(store.RetCInternalError,
			"cannot serialize document: %v", err)
	}
	if err := atomicfile.WriteFile(s.path, data, s.opts.FileMode); err != nil {
		return store.NewErrorf(store.RetCStorageUnavailable,
			"cannot write document file %s: %v", s.path, err)
	}
	return nil
}

// sweepTempResidue removes temp files a crashed or failed writer may have
// left next to the document. Callers must hold the exclusive lock: under
// the lock no cooperating mutator has a rename in flight, so every
// matching temp file is orphaned.
func (s *storeImpl) sweepTempResidue() {
	// plain prefix match on the directory listing, a glob would choke on
	// metacharacters in the document path
	dir := filepath.Dir(s.path)
	prefix := filepath.Base(s.path) + ".tmp-"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		residue := filepath.Join(dir, e.Name())
		if err := os.Remove(residue); err == nil {
			plog.Warningf("removed orphaned temp file %s", residue)
		}
	}
}
