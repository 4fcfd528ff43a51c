package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"flowmodoro/internal/modules/collector/domain"
	collectorout "flowmodoro/internal/modules/collector/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(dbPath string) (*SQLiteSessionRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo := &SQLiteSessionRepository{db: db}
	if err := repo.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

var _ collectorout.SessionRepository = (*SQLiteSessionRepository)(nil)

func (s *SQLiteSessionRepository) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  seconds INTEGER NOT NULL,
  kind TEXT NOT NULL,
  date TEXT NOT NULL,
  local_day TEXT,
  action TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	columns, err := s.columns(ctx)
	if err != nil {
		return err
	}
	for _, column := range []string{"local_day", "action"} {
		if columns[column] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE sessions ADD COLUMN %s TEXT`, column)); err != nil {
			return fmt.Errorf("add sessions.%s: %w", column, err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS sessions_local_day ON sessions(local_day)`); err != nil {
		return fmt.Errorf("create local_day index: %w", err)
	}
	return nil
}

func (s *SQLiteSessionRepository) columns(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info('sessions')`)
	if err != nil {
		return nil, fmt.Errorf("inspect sessions table: %w", err)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		out[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionRepository) Insert(ctx context.Context, session domain.Session) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (seconds, kind, date, local_day, action) VALUES (?, ?, ?, ?, ?)`,
		session.Seconds,
		session.Kind,
		session.Timestamp,
		nullIfEmpty(session.LocalDay),
		nullIfEmpty(session.Action),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	return id, nil
}

func (s *SQLiteSessionRepository) ListByDay(ctx context.Context, day string) ([]domain.Session, error) {
	const query = `
SELECT id, seconds, kind, date, local_day, action
FROM sessions
WHERE local_day = ?
   OR ((local_day IS NULL OR local_day = '') AND substr(date, 1, 10) = ?)
ORDER BY id;
`
	rows, err := s.db.QueryContext(ctx, query, day, day)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	out := []domain.Session{}
	for rows.Next() {
		var (
			session  domain.Session
			localDay sql.NullString
			action   sql.NullString
		)
		if err := rows.Scan(&session.ID, &session.Seconds, &session.Kind, &session.Timestamp, &localDay, &action); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.LocalDay = localDay.String
		session.Action = action.String
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionRepository) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

func (s *SQLiteSessionRepository) Close() error {
	return s.db.Close()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
