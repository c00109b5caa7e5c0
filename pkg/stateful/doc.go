// Package stateful holds the in-memory collections served by seedapi.
//
// A Store owns a fixed set of named collections (companies, cities, tags,
// jobs, cvs). Each Collection is an ordered slice of schema-free records and
// supports the generic CRUD contract:
//
//   - List with a substring query filter
//   - Get, Update (shallow merge) and Delete by loose id
//   - Create with synthetic numeric id assignment
//
// Ids are compared by their string rendering (record.ToString), so numeric 1
// and string "1" address the same record. Duplicate ids are admitted.
//
// Thread Safety:
//
// Every collection operation runs under that collection's sync.RWMutex.
// Reset takes all collection locks in a fixed order before swapping the
// contents in, so readers never observe a half-reset store.
//
// Usage:
//
//	store := stateful.NewStore(seed.NewFileSource("seed.json"))
//	if err := store.Load(ctx); err != nil {
//	    // collections stay empty; the server keeps running
//	}
//
//	companies, _ := store.Collection("companies")
//	created := companies.Create(record.Record{"name": "Beta"})
//	got, err := companies.Get("2")
//	updated, err := companies.Update("2", record.Record{"city": "Hue"})
//	removed, err := companies.Delete("2")
//
//	store.Reset(ctx) // re-read the seed source
package stateful
