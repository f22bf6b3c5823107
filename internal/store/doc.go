// Package store persists the active repository record.
//
// Three backends implement [Store]:
//   - file: a single 4-space indented JSON document, rewritten on every save
//   - bolt: a bbolt database with the record under bucket "state", key "active"
//   - sqlite: a single-row table "active_repository" (id fixed to 1)
//
// Use [Open] to select a backend by name:
//
//	st, err := store.Open(store.BackendFile, path)
//	repo, err := st.Load()
//
// Load returns [ErrNotFound] when nothing has been saved yet. There is no
// locking across processes; the last Save wins.
package store
