package memo_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Bratislawa-Youghurt/ilmomasiina/memo"
)

// EventRow is the shape of a row returned by the listing query.
type EventRow struct {
	ID    int
	Title string
}

// ListQuery is the argument of the listing query; equal queries share
// one cache entry regardless of field order.
type ListQuery struct {
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

func ExampleNew() {
	// The producer is the expensive read being shielded, typically a
	// database query behind a public endpoint.
	listEvents := func(ctx context.Context, q ListQuery) ([]EventRow, error) {
		fmt.Println("querying database")
		return []EventRow{{ID: 1, Title: "Spring Gala"}}, nil
	}

	cached, err := memo.New(listEvents, memo.Options{
		Name:   "events.list",
		MaxAge: time.Minute,
		Env:    "production",
	})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	rows, _ := cached.Do(ctx, ListQuery{Category: "public", Limit: 10})
	fmt.Println("got", len(rows), "event(s)")

	// Served from cache: the database is not touched again
	rows, _ = cached.Do(ctx, ListQuery{Limit: 10, Category: "public"})
	fmt.Println("got", len(rows), "event(s)")

	// Output:
	// querying database
	// got 1 event(s)
	// got 1 event(s)
}

func ExampleMemo_Invalidate() {
	calls := 0
	listEvents := func(ctx context.Context, q ListQuery) ([]EventRow, error) {
		calls++
		return nil, nil
	}

	cached, err := memo.New(listEvents, memo.Options{
		Name:   "events.list",
		MaxAge: time.Minute,
		Env:    "production",
	})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	query := ListQuery{Category: "public", Limit: 10}

	cached.Do(ctx, query)
	cached.Do(ctx, query)

	// After a signup mutates the data, bust the stale listing
	cached.Invalidate(query)
	cached.Do(ctx, query)

	fmt.Println("producer calls:", calls)
	// Output:
	// producer calls: 2
}
