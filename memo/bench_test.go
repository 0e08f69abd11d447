package memo

import (
	"context"
	"testing"
	"time"
)

func BenchmarkDefaultKeyer_Digest(b *testing.B) {
	keyer := NewDefaultKeyer()
	key := map[string]any{
		"category": "public",
		"limit":    10,
		"filter":   map[string]any{"open": true, "after": "2024-01-01"},
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := keyer.Digest(key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemo_Hit(b *testing.B) {
	producer := func(_ context.Context, arg string) (string, error) {
		return "value", nil
	}
	m, err := New(producer, Options{MaxAge: time.Hour, Env: "development"})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	if _, err := m.Do(ctx, "warm"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := m.Do(ctx, "warm"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemo_HitParallel(b *testing.B) {
	producer := func(_ context.Context, arg string) (string, error) {
		return "value", nil
	}
	m, err := New(producer, Options{MaxAge: time.Hour, Env: "development"})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	if _, err := m.Do(ctx, "warm"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := m.Do(ctx, "warm"); err != nil {
				b.Fatal(err)
			}
		}
	})
}
