package blob

import (
	"context"
	"errors"
	"testing"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
	}
}

func TestPutGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("image bytes")
			if err := store.Put(ctx, "items/abc", payload); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := store.Get(ctx, "items/abc")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != string(payload) {
				t.Fatalf("got %q, want %q", got, payload)
			}
			if err := store.Delete(ctx, "items/abc"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "items/abc"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(ctx, "items/x", []byte("old")); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := store.Put(ctx, "items/x", []byte("new")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := store.Get(ctx, "items/x")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != "new" {
				t.Fatalf("got %q after overwrite, want new", got)
			}
		})
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"items/a", "items/b", "thumbs/a"} {
				if err := store.Put(ctx, key, []byte(key)); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}
			keys, err := store.List(ctx, "items/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(keys) != 2 || keys[0] != "items/a" || keys[1] != "items/b" {
				t.Fatalf("list = %v, want [items/a items/b]", keys)
			}
		})
	}
}

func TestRejectedKeys(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "../escape", "/absolute", "a/../../b"} {
				if err := store.Put(ctx, key, []byte("x")); err == nil {
					t.Errorf("key %q accepted, want rejection", key)
				}
			}
		})
	}
}

func TestDeleteMissingKeyIsNoOp(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Delete(ctx, "items/nope"); err != nil {
				t.Fatalf("delete missing: %v", err)
			}
		})
	}
}
