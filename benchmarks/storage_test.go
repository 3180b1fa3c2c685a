package benchmarks

import (
	"context"
	"testing"

	"github.com/vardoc/vardoc/pkg/vardoc/storage"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

var benchTree = map[string]any{
	"name":      "world",
	".greeting": "Hello ${name}!",
}

// BenchmarkMemoryStoreLoad measures in-memory variant-selected loads.
func BenchmarkMemoryStoreLoad(b *testing.B) {
	store := storage.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "welcome", benchTree, variant.Context{}); err != nil {
		b.Fatal(err)
	}
	if err := store.Save(ctx, "welcome", benchTree, variant.Context{Language: "es"}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Load(ctx, "welcome", variant.Context{Language: "es"}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSQLiteStoreSave measures upsert throughput.
func BenchmarkSQLiteStoreSave(b *testing.B) {
	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Save(ctx, "welcome", benchTree, variant.Context{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSQLiteStoreLoad measures variant-selected loads from SQLite.
func BenchmarkSQLiteStoreLoad(b *testing.B) {
	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "welcome", benchTree, variant.Context{}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Load(ctx, "welcome", variant.Context{}); err != nil {
			b.Fatal(err)
		}
	}
}
