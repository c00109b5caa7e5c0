// Package seed reads the snapshot that initializes and resets the store.
//
// A seed document is a JSON or YAML object whose top-level keys name
// collections and whose values are arrays of records:
//
//	{
//	  "companies": [{"id": 1, "name": "Acme"}],
//	  "cities":    [],
//	  "tags":      [{"id": "go", "label": "Go"}]
//	}
//
// Sources are re-read on every Load, so a reset always starts from the
// document as it currently exists on disk.
package seed
