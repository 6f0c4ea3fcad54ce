package testing

import (
	"reflect"
	"testing"

	"github.com/mwerner/flatkv/lib/store"
)

// StoreFactory is a function that creates a new instance of an
// IDocumentStore implementation
type StoreFactory func() store.IDocumentStore

// RunDocumentStoreTests runs a comprehensive test suite for an
// IDocumentStore implementation.
func RunDocumentStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("UpdateMerge", func(t *testing.T) {
			testUpdateMerge(t, factory())
		})

		t.Run("UpdateMissingKey", func(t *testing.T) {
			testUpdateMissingKey(t, factory())
		})

		t.Run("UpdateNonMapping", func(t *testing.T) {
			testUpdateNonMapping(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Increment", func(t *testing.T) {
			testIncrement(t, factory())
		})

		t.Run("IncrementTypeGuard", func(t *testing.T) {
			testIncrementTypeGuard(t, factory())
		})

		t.Run("GetIsolation", func(t *testing.T) {
			testGetIsolation(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// mustGetMapping fetches the value for key and fails the test if it is
// absent or not mapping shaped
func mustGetMapping(t *testing.T, s store.IDocumentStore, key string) map[string]any {
	t.Helper()

	value, loaded, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if !loaded {
		t.Fatalf("Expected key %q to exist", key)
	}
	m, ok := store.AsMapping(value)
	if !ok {
		t.Fatalf("Expected mapping value for key %q, got %T", key, value)
	}
	return m
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IDocumentStore) {
	testKey := "user:123"
	testValue1 := map[string]any{"email": "user@example.com", "phone": "555-0000"}
	testValue2 := map[string]any{"email": "other@example.com"}

	if err := s.Set(testKey, testValue1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result := mustGetMapping(t, s, testKey)
	if !reflect.DeepEqual(map[string]any(result), testValue1) {
		t.Errorf("Expected value %v, got %v", testValue1, result)
	}

	if err := s.Set(testKey, testValue2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result = mustGetMapping(t, s, testKey)
	if !reflect.DeepEqual(map[string]any(result), testValue2) {
		t.Errorf("Expected value %v, got %v", testValue2, result)
	}

	_, loaded, err := s.Get("nonexistent-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded {
		t.Errorf("Expected nonexistent key to return loaded=false")
	}
}

func testUpdateMerge(t *testing.T, s store.IDocumentStore) {
	if err := s.Set("k", map[string]any{"a": int64(0), "b": int64(2)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Update("k", map[string]any{"a": int64(1)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	result := mustGetMapping(t, s, "k")

	// fields named in the partial are overwritten
	if got, _ := store.CoerceInt64(result["a"]); got != 1 {
		t.Errorf("Expected a=1 after update, got %v", result["a"])
	}
	// existing fields not named in the partial are preserved
	if got, _ := store.CoerceInt64(result["b"]); got != 2 {
		t.Errorf("Expected b=2 to be preserved, got %v", result["b"])
	}
}

func testUpdateMissingKey(t *testing.T, s store.IDocumentStore) {
	if err := s.Update("k2", map[string]any{"a": int64(1)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	result := mustGetMapping(t, s, "k2")
	if got, _ := store.CoerceInt64(result["a"]); got != 1 {
		t.Errorf("Expected a=1 for new key, got %v", result["a"])
	}
}

func testUpdateNonMapping(t *testing.T, s store.IDocumentStore) {
	if err := s.Set("k", "just a string"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Update("k", map[string]any{"a": int64(1)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// a non-mapping value is replaced wholesale with the partial
	result := mustGetMapping(t, s, "k")
	if len(result) != 1 {
		t.Errorf("Expected replacement mapping with one field, got %v", result)
	}
}

func testDelete(t *testing.T, s store.IDocumentStore) {
	if err := s.Set("key-a", "value-a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("key-b", "value-b"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Delete("key-a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if loaded, _ := s.Has("key-a"); loaded {
		t.Errorf("Expected key-a to be gone after Delete")
	}

	// deleting an absent key is a no-op, not an error
	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("Expected delete of absent key to succeed, got %v", err)
	}

	// unrelated keys are untouched
	if loaded, _ := s.Has("key-b"); !loaded {
		t.Errorf("Expected key-b to survive deletion of key-a")
	}
}

func testIncrement(t *testing.T, s store.IDocumentStore) {
	// absent key: created as an empty mapping, absent field counts from zero
	value, err := s.Increment("counter", "value", 1)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if value != 1 {
		t.Errorf("Expected 1 after first increment, got %d", value)
	}

	value, err = s.Increment("counter", "value", 1)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if value != 2 {
		t.Errorf("Expected 2 after second increment, got %d", value)
	}

	// custom and negative deltas
	value, err = s.Increment("counter", "value", 10)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if value != 12 {
		t.Errorf("Expected 12, got %d", value)
	}

	value, err = s.Increment("counter", "value", -2)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if value != 10 {
		t.Errorf("Expected 10, got %d", value)
	}

	// independent fields of the same record
	value, err = s.Increment("counter", "other", 5)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if value != 5 {
		t.Errorf("Expected 5 for fresh field, got %d", value)
	}
}

func testIncrementTypeGuard(t *testing.T, s store.IDocumentStore) {
	if err := s.Set("k", "just a string"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, err := s.Increment("k", "field", 1)
	if err == nil {
		t.Fatalf("Expected Increment on non-mapping value to fail")
	}
	if store.CodeOf(err) != store.RetCInvalidFieldType {
		t.Errorf("Expected RetCInvalidFieldType, got %v", err)
	}

	// the failed increment must not have modified the value
	value, loaded, err := s.Get("k")
	if err != nil || !loaded {
		t.Fatalf("Get failed after rejected increment: %v", err)
	}
	if value != "just a string" {
		t.Errorf("Expected value to be unchanged, got %v", value)
	}

	// a non-numeric field is guarded the same way
	if err := s.Set("rec", map[string]any{"name": "bob"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := s.Increment("rec", "name", 1); store.CodeOf(err) != store.RetCInvalidFieldType {
		t.Errorf("Expected RetCInvalidFieldType for non-numeric field, got %v", err)
	}
}

func testGetIsolation(t *testing.T, s store.IDocumentStore) {
	if err := s.Set("k", map[string]any{"a": int64(1)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// mutating a fetched value must not reach the store
	fetched := mustGetMapping(t, s, "k")
	fetched["a"] = int64(99)
	fetched["extra"] = true

	fresh := mustGetMapping(t, s, "k")
	if got, _ := store.CoerceInt64(fresh["a"]); got != 1 {
		t.Errorf("Expected a=1 after caller-side mutation, got %v", fresh["a"])
	}
	if _, ok := fresh["extra"]; ok {
		t.Errorf("Expected caller-side field not to appear in the store, got %v", fresh)
	}

	// mutating the input of Set after the call must not either
	input := map[string]any{"b": int64(2)}
	if err := s.Set("k2", input); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	input["b"] = int64(7)

	fresh = mustGetMapping(t, s, "k2")
	if got, _ := store.CoerceInt64(fresh["b"]); got != 2 {
		t.Errorf("Expected b=2 after input mutation, got %v", fresh["b"])
	}
}

func testHas(t *testing.T, s store.IDocumentStore) {
	if loaded, err := s.Has("key"); err != nil || loaded {
		t.Errorf("Expected Has on empty store to be false, got %v/%v", loaded, err)
	}

	if err := s.Set("key", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// a key set to null still exists
	if loaded, err := s.Has("key"); err != nil || !loaded {
		t.Errorf("Expected Has to be true after Set, got %v/%v", loaded, err)
	}
}

func testKeys(t *testing.T, s store.IDocumentStore) {
	for _, k := range []string{"charlie", "alpha", "bravo"} {
		if err := s.Set(k, true); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}

	expected := []string{"alpha", "bravo", "charlie"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected sorted keys %v, got %v", expected, keys)
	}
}

func testClear(t *testing.T, s store.IDocumentStore) {
	if err := s.Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Expected empty store after Clear, got keys %v", keys)
	}
}

func testRealisticUsage(t *testing.T, s store.IDocumentStore) {
	// a session-tracking shape: records plus counters under one roof
	if err := s.Set("user:1", map[string]any{"email": "a@example.com"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Update("user:1", map[string]any{"phone": "555-1234"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := s.Increment("stats", "logins", 1); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if _, err := s.Increment("stats", "logins", 1); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	user := mustGetMapping(t, s, "user:1")
	if user["email"] != "a@example.com" || user["phone"] != "555-1234" {
		t.Errorf("Unexpected user record: %v", user)
	}

	stats := mustGetMapping(t, s, "stats")
	if got, _ := store.CoerceInt64(stats["logins"]); got != 2 {
		t.Errorf("Expected 2 logins, got %v", stats["logins"])
	}

	info, err := s.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.NumKeys != 2 {
		t.Errorf("Expected 2 keys in info, got %d", info.NumKeys)
	}
}
