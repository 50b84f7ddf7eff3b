// Package journal persists a history of engine operations in SQLite.
//
// The journal is opt-in ([journal] enabled = true). Store implements
// ddp.Recorder so a Client can report every finished operation; the CLI
// `history` command reads the rows back. Writes retry on SQLITE_BUSY so several
// processes can share one database file.
package journal
