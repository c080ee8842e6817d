package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fentz26/tempus/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps the collection in a SQLite database. Each save
// replaces the stored collection inside one transaction.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the database and runs migrations.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	b := &SQLiteBackend{db: db}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return b, nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// migrate runs idempotent schema migrations.
func (b *SQLiteBackend) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		description TEXT NOT NULL,
		start_time TEXT NOT NULL,
		initial_deadline TEXT NOT NULL,
		current_deadline TEXT NOT NULL,
		completion_time TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		total_adjustments INTEGER NOT NULL DEFAULT 0,
		total_adjusted_time REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS adjustments (
		task_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		adjustment_count INTEGER NOT NULL,
		time TEXT NOT NULL,
		reason TEXT NOT NULL,
		original_deadline TEXT NOT NULL,
		new_deadline TEXT NOT NULL,
		PRIMARY KEY (task_id, position),
		FOREIGN KEY (task_id) REFERENCES tasks(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);
	`

	_, err := b.db.Exec(schema)
	return err
}

// Load reads all tasks in creation order.
func (b *SQLiteBackend) Load() ([]models.Task, error) {
	rows, err := b.db.Query(
		`SELECT id, description, start_time, initial_deadline, current_deadline, completion_time, summary, status, total_adjustments, total_adjusted_time
		 FROM tasks ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	byID := make(map[string]int)
	for rows.Next() {
		var (
			task                                     models.Task
			start, initial, current, completion, sts string
		)
		if err := rows.Scan(&task.ID, &task.Description, &start, &initial, &current, &completion, &task.Summary, &sts, &task.TotalAdjustments, &task.TotalAdjustedTime); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if task.StartTime, err = models.ParseTime(start); err != nil {
			return nil, err
		}
		if task.InitialDeadline, err = models.ParseTime(initial); err != nil {
			return nil, err
		}
		if task.CurrentDeadline, err = models.ParseTime(current); err != nil {
			return nil, err
		}
		if completion != "" {
			ct, err := models.ParseTime(completion)
			if err != nil {
				return nil, err
			}
			task.CompletionTime = &ct
		}
		task.Status = models.NormalizeStatus(sts)
		task.Adjustments = []models.Adjustment{}

		byID[task.ID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	adjRows, err := b.db.Query(
		`SELECT task_id, adjustment_count, time, reason, original_deadline, new_deadline
		 FROM adjustments ORDER BY task_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query adjustments: %w", err)
	}
	defer adjRows.Close()

	for adjRows.Next() {
		var (
			taskID, at, from, to string
			adj                  models.Adjustment
		)
		if err := adjRows.Scan(&taskID, &adj.Sequence, &at, &adj.Reason, &from, &to); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		i, ok := byID[taskID]
		if !ok {
			continue
		}
		if adj.Time, err = models.ParseTime(at); err != nil {
			return nil, err
		}
		if adj.OriginalDeadline, err = models.ParseTime(from); err != nil {
			return nil, err
		}
		if adj.NewDeadline, err = models.ParseTime(to); err != nil {
			return nil, err
		}
		tasks[i].Adjustments = append(tasks[i].Adjustments, adj)
	}
	return tasks, adjRows.Err()
}

// Save replaces the stored collection.
func (b *SQLiteBackend) Save(tasks []models.Task) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM adjustments`); err != nil {
		return fmt.Errorf("clear adjustments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for pos, t := range tasks {
		completion := ""
		if t.CompletionTime != nil {
			completion = models.FormatTime(*t.CompletionTime)
		}
		_, err := tx.Exec(
			`INSERT INTO tasks (id, position, description, start_time, initial_deadline, current_deadline, completion_time, summary, status, total_adjustments, total_adjusted_time)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, pos, t.Description, models.FormatTime(t.StartTime), models.FormatTime(t.InitialDeadline),
			models.FormatTime(t.CurrentDeadline), completion, t.Summary, string(t.Status), t.TotalAdjustments, t.TotalAdjustedTime,
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}

		for apos, a := range t.Adjustments {
			_, err := tx.Exec(
				`INSERT INTO adjustments (task_id, position, adjustment_count, time, reason, original_deadline, new_deadline)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				t.ID, apos, a.Sequence, models.FormatTime(a.Time), a.Reason,
				models.FormatTime(a.OriginalDeadline), models.FormatTime(a.NewDeadline),
			)
			if err != nil {
				return fmt.Errorf("insert adjustment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
