package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	// ErrTaskNotFound is returned when a task id has no record.
	ErrTaskNotFound = errors.New("task not found")
)

// Store persists tasks, rate-limit windows, dedup entries and weights in a
// single SQLite database. It is the only shared mutable resource in the core;
// every atomic primitive the other components rely on lives here.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (creating if needed) the database at dir/analysis.db, applies
// pragmas and the schema, and returns a ready Store.
func Open(dir string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		return nil, errors.New("store: nil logger provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure store dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "analysis.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("store initialized", logging.Field{Key: "path", Value: dbPath})
	return &Store{db: db, logger: logger}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for advanced use (tests, migrations).
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Tasks ─────────────────────────────────────────────────────────────

// CreateTask inserts a new task record. The task id must be unique.
func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, status, requested_url, created_at)
		VALUES (?, ?, ?, ?)
	`, task.ID, string(task.Status), task.RequestedURL, task.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert task %s: %w", task.ID, err)
	}
	return nil
}

// GetTask returns the task with the given id, or ErrTaskNotFound. The row is
// read in a single statement so readers always observe one consistent
// transition, never a mix of two.
func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, requested_url, final_url, overall_score, grade,
		       checks_json, warnings_json, error_message, created_at, completed_at
		FROM tasks WHERE id = ?
	`, id)

	var (
		task        model.Task
		status      string
		grade       string
		checksJSON  string
		warnsJSON   string
		createdAt   int64
		completedAt sql.NullInt64
	)
	err := row.Scan(&task.ID, &status, &task.RequestedURL, &task.FinalURL,
		&task.OverallScore, &grade, &checksJSON, &warnsJSON,
		&task.ErrorMessage, &createdAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task %s: %w", id, err)
	}

	task.Status = model.TaskStatus(status)
	task.Grade = model.Grade(grade)
	task.CreatedAt = time.Unix(createdAt, 0).UTC()
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		task.CompletedAt = &t
	}
	if checksJSON != "" {
		if err := json.Unmarshal([]byte(checksJSON), &task.Checks); err != nil {
			return nil, fmt.Errorf("decode checks for task %s: %w", id, err)
		}
	}
	if warnsJSON != "" {
		if err := json.Unmarshal([]byte(warnsJSON), &task.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings for task %s: %w", id, err)
		}
	}
	return &task, nil
}

// TransitionTask performs a compare-and-swap on the task status and reports
// whether this caller won the transition. A false return with nil error means
// another path already moved the task out of `from`.
func (s *Store) TransitionTask(ctx context.Context, id string, from, to model.TaskStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ? WHERE id = ? AND status = ?
	`, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("transition task %s %s->%s: %w", id, from, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// CompleteTask writes the done transition together with all result fields in
// one statement. It only applies while the task is still running.
func (s *Store) CompleteTask(ctx context.Context, id string, result *model.TaskResult) error {
	checksJSON, err := json.Marshal(result.Checks)
	if err != nil {
		return fmt.Errorf("encode checks: %w", err)
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warnsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, final_url = ?, overall_score = ?, grade = ?,
		    checks_json = ?, warnings_json = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`, string(model.TaskDone), result.FinalURL, result.OverallScore, string(result.Grade),
		string(checksJSON), string(warnsJSON), time.Now().UTC().Unix(),
		id, string(model.TaskRunning))
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("complete task %s: task is not running", id)
	}
	return nil
}

// FailTask records a failed transition with a message. It applies from either
// queued or running so failures before the running CAS are still recorded.
func (s *Store) FailTask(ctx context.Context, id, message string) error {
	if message == "" {
		message = "analysis failed"
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, string(model.TaskFailed), message, time.Now().UTC().Unix(),
		id, string(model.TaskQueued), string(model.TaskRunning))
	if err != nil {
		return fmt.Errorf("fail task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("fail task %s: task already terminal", id)
	}
	return nil
}

// FailStaleTasks marks every task still queued or running as failed. Called
// once at startup: any non-terminal task at that point was interrupted by a
// previous shutdown and no goroutine will ever finish it.
func (s *Store) FailStaleTasks(ctx context.Context, message string) (int, error) {
	if message == "" {
		message = "analysis interrupted by restart"
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, error_message = ?, completed_at = ?
		WHERE status IN (?, ?)
	`, string(model.TaskFailed), message, time.Now().UTC().Unix(),
		string(model.TaskQueued), string(model.TaskRunning))
	if err != nil {
		return 0, fmt.Errorf("fail stale tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// ─── Rate-limit windows ────────────────────────────────────────────────

// IncrementWindow atomically increments the counter for (clientID, windowKey)
// unless it has already reached limit. The ceiling check and the increment are
// a single guarded UPDATE, so concurrent callers cannot lose updates or
// overshoot the limit.
func (s *Store) IncrementWindow(ctx context.Context, clientID, windowKey string, limit int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rb := tx.Rollback(); rb != nil && !errors.Is(rb, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", logging.Field{Key: "error", Value: rb.Error()})
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_windows (client_id, window_key, count) VALUES (?, ?, 0)
		ON CONFLICT (client_id, window_key) DO NOTHING
	`, clientID, windowKey); err != nil {
		return false, fmt.Errorf("ensure window row: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE rate_windows SET count = count + 1
		WHERE client_id = ? AND window_key = ? AND count < ?
	`, clientID, windowKey, limit)
	if err != nil {
		return false, fmt.Errorf("increment window: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return n == 1, nil
}

// WindowCount returns the current counter for (clientID, windowKey); zero when
// no row exists yet.
func (s *Store) WindowCount(ctx context.Context, clientID, windowKey string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT count FROM rate_windows WHERE client_id = ? AND window_key = ?
	`, clientID, windowKey).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read window count: %w", err)
	}
	return count, nil
}

// ─── Dedup entries ─────────────────────────────────────────────────────

// GetDedup returns the dedup entry for a fingerprint; ok is false on a miss.
func (s *Store) GetDedup(ctx context.Context, fingerprint string) (taskID string, cachedAt time.Time, ok bool, err error) {
	var cached int64
	err = s.db.QueryRowContext(ctx, `
		SELECT task_id, cached_at FROM dedup_entries WHERE fingerprint = ?
	`, fingerprint).Scan(&taskID, &cached)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("read dedup entry: %w", err)
	}
	return taskID, time.Unix(cached, 0).UTC(), true, nil
}

// PutDedup records the most recent completed task for a fingerprint,
// overwriting any prior entry (most-recent-wins).
func (s *Store) PutDedup(ctx context.Context, fingerprint, taskID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dedup_entries (fingerprint, task_id, cached_at) VALUES (?, ?, ?)
		ON CONFLICT (fingerprint) DO UPDATE SET task_id = excluded.task_id, cached_at = excluded.cached_at
	`, fingerprint, taskID, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("upsert dedup entry: %w", err)
	}
	return nil
}

// ─── Weights ───────────────────────────────────────────────────────────

// GetWeights loads the operator weight configuration, falling back to the
// defaults when nothing has been stored yet.
func (s *Store) GetWeights(ctx context.Context) (model.Weights, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM weights`)
	if err != nil {
		return model.Weights{}, fmt.Errorf("read weights: %w", err)
	}
	defer rows.Close()

	stored := map[string]int{}
	for rows.Next() {
		var name string
		var value int
		if err := rows.Scan(&name, &value); err != nil {
			return model.Weights{}, fmt.Errorf("scan weight: %w", err)
		}
		stored[name] = value
	}
	if err := rows.Err(); err != nil {
		return model.Weights{}, fmt.Errorf("iterate weights: %w", err)
	}
	if len(stored) == 0 {
		return model.DefaultWeights(), nil
	}

	w := model.Weights{
		Technical:      stored["technical"],
		Content:        stored["content"],
		StructuredData: stored["structured_data"],
		Performance:    stored["performance"],
		Social:         stored["social"],
	}
	return w, nil
}

// PutWeights stores a validated weight configuration atomically.
func (s *Store) PutWeights(ctx context.Context, w model.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rb := tx.Rollback(); rb != nil && !errors.Is(rb, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", logging.Field{Key: "error", Value: rb.Error()})
		}
	}()

	for name, value := range map[string]int{
		"technical":       w.Technical,
		"content":         w.Content,
		"structured_data": w.StructuredData,
		"performance":     w.Performance,
		"social":          w.Social,
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO weights (name, value) VALUES (?, ?)
			ON CONFLICT (name) DO UPDATE SET value = excluded.value
		`, name, value); err != nil {
			return fmt.Errorf("upsert weight %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
