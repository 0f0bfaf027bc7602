// package zsave stores saved games in a sqlite database.
package zsave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	zdebug "github.com/DustinCampbell/ZDebug-sub001"
	"github.com/DustinCampbell/ZDebug-sub001/zsave/internal/dbutil"
	"github.com/DustinCampbell/ZDebug-sub001/zsave/internal/migrations"
	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

// DefaultSlot is the slot used by the save and restore opcodes when no other is chosen.
const DefaultSlot = "default"

var currentSchema = migrations.InitialState().
	ApplyStmt(`CREATE TABLE saves (
		story BLOB NOT NULL,
		slot TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY(story, slot)
	) STRICT`).
	ApplyStmt(`CREATE INDEX idx_saves_created ON saves (story, created_at)`)

// ErrNotFound is returned when a slot has never been saved.
type ErrNotFound struct {
	Story zdebug.ID
	Slot  string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("zsave: no save %q for story %v", e.Slot, e.Story)
}

// Slot describes a saved game without its data.
type Slot struct {
	Name      string
	Size      int
	CreatedAt time.Time
}

// Store holds saved games for any number of stories.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens or creates the database at p and brings its schema up to date.
func Open(ctx context.Context, p string) (*Store, error) {
	db, err := dbutil.Open(p)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New uses an already open database.
func New(ctx context.Context, db *sqlx.DB) (*Store, error) {
	if err := migrations.Migrate(ctx, db, currentSchema); err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes data to a slot, replacing anything saved there.
func (s *Store) Put(ctx context.Context, story zdebug.ID, slot string, data []byte) error {
	logctx.Debug(ctx, "save put", zap.Stringer("story", story), zap.String("slot", slot), zap.Int("size", len(data)))
	return dbutil.DoTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO saves (story, slot, data, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (story, slot) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
			story[:], slot, data, s.now().UnixNano())
		return err
	})
}

// Get returns the data saved in a slot.
func (s *Store) Get(ctx context.Context, story zdebug.ID, slot string) ([]byte, error) {
	logctx.Debug(ctx, "save get", zap.Stringer("story", story), zap.String("slot", slot))
	return dbutil.DoTx1(ctx, s.db, func(tx *sqlx.Tx) ([]byte, error) {
		var data []byte
		err := tx.Get(&data, `SELECT data FROM saves WHERE story = ? AND slot = ?`, story[:], slot)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound{Story: story, Slot: slot}
		}
		return data, err
	})
}

// Delete removes a slot.  Deleting a missing slot is not an error.
func (s *Store) Delete(ctx context.Context, story zdebug.ID, slot string) error {
	return dbutil.DoTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`DELETE FROM saves WHERE story = ? AND slot = ?`, story[:], slot)
		return err
	})
}

// List returns the slots saved for story, most recent first.
func (s *Store) List(ctx context.Context, story zdebug.ID) ([]Slot, error) {
	return dbutil.DoTx1(ctx, s.db, func(tx *sqlx.Tx) ([]Slot, error) {
		var rows []struct {
			Slot      string `db:"slot"`
			Size      int    `db:"size"`
			CreatedAt int64  `db:"created_at"`
		}
		if err := tx.Select(&rows, `SELECT slot, length(data) AS size, created_at FROM saves
			WHERE story = ? ORDER BY created_at DESC, slot`, story[:]); err != nil {
			return nil, err
		}
		ret := make([]Slot, len(rows))
		for i, r := range rows {
			ret[i] = Slot{Name: r.Slot, Size: r.Size, CreatedAt: time.Unix(0, r.CreatedAt)}
		}
		return ret, nil
	})
}

// Snapshotter returns a zvm.Snapshotter which saves to and restores from a single slot.
func (s *Store) Snapshotter(story zdebug.ID, slot string) zvm.Snapshotter {
	return &slotSnapshotter{s: s, story: story, slot: slot}
}

type slotSnapshotter struct {
	s     *Store
	story zdebug.ID
	slot  string
}

func (ss *slotSnapshotter) SaveSnapshot(ctx context.Context, data []byte) error {
	return ss.s.Put(ctx, ss.story, ss.slot, data)
}

func (ss *slotSnapshotter) LoadSnapshot(ctx context.Context) ([]byte, error) {
	return ss.s.Get(ctx, ss.story, ss.slot)
}
