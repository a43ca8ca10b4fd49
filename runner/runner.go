package runner

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ridoystarlord/schemashot/database"
)

// Report describes one Apply call.
type Report struct {
	Executed      int           `json:"executed"`
	Skipped       int           `json:"skipped"`
	Checksum      string        `json:"checksum"`
	ExecutionTime time.Duration `json:"execution_time"`
	DryRun        bool          `json:"dry_run"`
}

// Checksum fingerprints a statement list so a preview can be matched to the
// run that applied it.
func Checksum(stmts []string) string {
	hash := sha256.Sum256([]byte(strings.Join(stmts, "\n")))
	return fmt.Sprintf("%x", hash)
}

// Executable reports whether stmt does anything. Comment-only lines are
// skipped.
func Executable(stmt string) bool {
	s := strings.TrimSpace(stmt)
	return s != "" && !strings.HasPrefix(s, "--")
}

// Pending returns the statements of stmts that Apply would execute.
func Pending(stmts []string) []string {
	var exec []string
	for _, stmt := range stmts {
		if Executable(stmt) {
			exec = append(exec, stmt)
		}
	}
	return exec
}

// Apply runs stmts in a single transaction. Any failure rolls the whole set
// back. With dryRun nothing is sent to the database.
func Apply(ctx context.Context, conn *database.Conn, stmts []string, dryRun bool) (Report, error) {
	report := Report{Checksum: Checksum(stmts), DryRun: dryRun}

	exec := Pending(stmts)
	report.Skipped = len(stmts) - len(exec)
	if dryRun || len(exec) == 0 {
		return report, nil
	}

	start := time.Now()
	var err error
	if conn.Pool != nil {
		err = applyPgx(ctx, conn, exec)
	} else {
		err = applySQL(ctx, conn, exec)
	}
	report.ExecutionTime = time.Since(start)
	if err != nil {
		return report, err
	}

	report.Executed = len(exec)
	slog.Debug("statements applied", "count", report.Executed, "checksum", report.Checksum[:12], "elapsed", report.ExecutionTime)
	return report, nil
}

func applyPgx(ctx context.Context, conn *database.Conn, stmts []string) error {
	return pgx.BeginFunc(ctx, conn.Pool, func(tx pgx.Tx) error {
		for i, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w\n%s", i+1, err, stmt)
			}
		}
		return nil
	})
}

func applySQL(ctx context.Context, conn *database.Conn, stmts []string) error {
	tx, err := conn.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Warn("rollback failed", "error", rbErr)
			}
			return fmt.Errorf("statement %d failed: %w\n%s", i+1, err, stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
