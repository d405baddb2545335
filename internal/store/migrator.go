package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"balift/internal/store/migrations"
)

// Migrator applies the numbered .sql files embedded under migrations/ for
// the store's dialect, in order, exactly once each.
type Migrator struct {
	store *Store
	log   *zap.Logger
}

func NewMigrator(store *Store, log *zap.Logger) *Migrator {
	return &Migrator{store: store, log: log}
}

// Up brings the schema to the latest version.
func (m *Migrator) Up(ctx context.Context) error {
	return m.up(ctx, migrations.All, m.dialectDir())
}

func (m *Migrator) dialectDir() string {
	if m.store.Driver() == "mysql" {
		return "mysql"
	}
	return "sqlite"
}

func (m *Migrator) up(ctx context.Context, source embed.FS, dir string) error {
	list, err := fs.ReadDir(source, dir)
	if err != nil {
		return err
	}
	// apply in version order
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})

	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	current, err := m.schemaVersion(ctx)
	if err != nil {
		return err
	}

	final, err := scriptVersion(list[len(list)-1].Name())
	if err != nil {
		return err
	}
	if final > current {
		m.log.Info("Bringing up schema migrations",
			zap.Int("migration_count", final-current))
	}

	for _, f := range list {
		n := f.Name()
		v, err := scriptVersion(n)
		if err != nil {
			return err
		}
		if v <= current {
			continue
		}

		m.log.Debug("Executing schema migration", zap.String("migration_name", n))
		script, err := source.ReadFile(dir + "/" + n)
		if err != nil {
			return err
		}

		if err := m.store.Tx(ctx, func(tx *sqlx.Tx) error {
			for _, stmt := range splitStatements(string(script)) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %s: %w", n, err)
				}
			}
			_, err := tx.ExecContext(ctx, "UPDATE schema_version SET version = ?", v)
			return err
		}); err != nil {
			return err
		}
		current = v
	}

	return nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.store.DB.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)")
	if err != nil {
		return err
	}

	var n int
	if err := m.store.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM schema_version"); err != nil {
		return err
	}
	if n == 0 {
		_, err = m.store.DB.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (0)")
	}
	return err
}

func (m *Migrator) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := m.store.DB.GetContext(ctx, &v, "SELECT version FROM schema_version")
	return v, err
}

// scriptVersion extracts the version number from a file named like
// "0002_migration_name.sql".
func scriptVersion(filename string) (int, error) {
	vString := strings.Split(filename, "_")[0]
	vInt, err := strconv.Atoi(vString)
	if err != nil {
		return 0, fmt.Errorf("migration filename %q: %w", filename, err)
	}
	return vInt, nil
}

// splitStatements breaks a migration script on semicolons at end of
// statement. The mysql driver does not accept multi-statement Exec by
// default, and the scripts contain no semicolons inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
