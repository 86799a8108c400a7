// Package pgutil provides the shared PostgreSQL plumbing for geep
// services: connection pool construction with per-connection IAM auth in
// deployed environments, a transaction wrapper, and a generic CRUD
// repository.
//
// The repository binds one entity type to one database handle:
//
//	type Dialogue struct {
//		pgutil.Base
//		ExtDialogueID uuid.UUID `db:"ext_dialogue_id"`
//		TaskID        string    `db:"task_id"`
//	}
//
//	func (Dialogue) TableName() string       { return "dialogues" }
//	func (Dialogue) UniqueColumns() []string { return []string{"ext_dialogue_id"} }
//
//	repo := pgutil.NewRepository[Dialogue](pool)
//	rows, err := repo.Select(ctx,
//		pgutil.Where(pgutil.Eq("task_id", taskID)),
//		pgutil.OrderBy("created_at"))
//
// Store errors are logged once and returned as-is; nothing is retried.
// Callers needing atomic multi-row writes run the repository inside Tx.
package pgutil
