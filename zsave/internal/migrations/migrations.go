// package migrations applies schema changes to a database, tracking progress in user_version.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
)

// State is a schema, as the list of statements which produce it.
type State struct {
	stmts []string
}

func InitialState() *State {
	return &State{}
}

// ApplyStmt returns a new State with stmt applied after x.
func (x *State) ApplyStmt(stmt string) *State {
	stmts := append([]string(nil), x.stmts...)
	return &State{stmts: append(stmts, stmt)}
}

func (x *State) Version() int {
	return len(x.stmts)
}

// Migrate brings db up to date with target.
// Statements already applied, according to the database's user_version, are skipped.
func Migrate(ctx context.Context, db *sqlx.DB, target *State) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	var current int
	if err := tx.GetContext(ctx, &current, `PRAGMA user_version`); err != nil {
		return err
	}
	if current > target.Version() {
		return fmt.Errorf("migrations: database is at version %d, newer than %d", current, target.Version())
	}
	for i := current; i < target.Version(); i++ {
		if _, err := tx.ExecContext(ctx, target.stmts[i]); err != nil {
			return fmt.Errorf("migrations: applying statement %d: %w", i, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, target.Version())); err != nil {
		return err
	}
	if current != target.Version() {
		logctx.Infof(ctx, "migrated database from version %d to %d", current, target.Version())
	}
	return tx.Commit()
}
