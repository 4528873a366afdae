/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements the regulatory repository, the workforce directory, and the
  score-trend sink on SQLite. In production the same patterns apply to
  PostgreSQL with minor dialect differences; this engine treats the
  store as the standing implementation of its injected data sources.

INTERFACES IMPLEMENTED:
  regulatory.Repository:  Rate/rule lookup by location
  regulatory.Snapshotter: Versioned consistent-read snapshots
  workforce.Directory:    Wage and time record lookup
  compliance.TrendSink:   Durable score history

IMMUTABILITY:
  wage_rates and overtime_rules are append-only: a superseding record is
  a new row with a later effective date. score_snapshots is append-only
  by construction. Worker rows are upserted by the seeding paths only;
  a scan never writes worker data.

VERSIONING:
  Every rate/rule write bumps a version counter in the meta table.
  Snapshots carry that version, so a scan can prove all workers in one
  pass were judged against the same rule set.

WAL MODE:
  SQLite is opened with WAL for better read concurrency during scans.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - regulatory/repository.go: Interface definitions
  - regulatory/store/memory.go: In-memory twin for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/workforce"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Minimum wage rates (append-only; superseded by later effective dates)
	CREATE TABLE IF NOT EXISTS wage_rates (
		id TEXT PRIMARY KEY,
		jurisdiction TEXT NOT NULL,
		region TEXT NOT NULL,
		rate TEXT NOT NULL,
		tipped_rate TEXT,
		effective_at TEXT NOT NULL,
		next_increase_at TEXT,
		next_increase_rate TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_wage_rates_region
		ON wage_rates(jurisdiction, region, effective_at DESC);

	-- Overtime rules (append-only)
	CREATE TABLE IF NOT EXISTS overtime_rules (
		id TEXT PRIMARY KEY,
		jurisdiction TEXT NOT NULL,
		region TEXT NOT NULL,
		daily_threshold TEXT,
		weekly_threshold TEXT NOT NULL,
		multiplier TEXT NOT NULL,
		exempt_categories TEXT NOT NULL,
		effective_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_overtime_rules_region
		ON overtime_rules(jurisdiction, region, effective_at DESC);

	-- Worker wage records (owned by the HR collaborator; seeded here)
	CREATE TABLE IF NOT EXISTS workers (
		worker_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		location TEXT NOT NULL,
		job_category TEXT NOT NULL DEFAULT '',
		tipped INTEGER NOT NULL DEFAULT 0
	);

	-- Pay-period time records
	CREATE TABLE IF NOT EXISTS time_records (
		worker_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		daily_hours TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		overtime_paid TEXT NOT NULL,
		overtime_comped TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		job_category TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (worker_id, period_start, period_end)
	);

	-- Score history (append-only)
	CREATE TABLE IF NOT EXISTS score_snapshots (
		run_id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		score INTEGER NOT NULL,
		violations INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_score_snapshots_at ON score_snapshots(at);

	-- Version counter for consistent-read snapshots
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO meta(key, value) VALUES ('rule_version', 0);
	`
	_, err := s.db.Exec(schema)
	return err
}

const dateFormat = "2006-01-02"

// =============================================================================
// REGULATORY RECORDS
// =============================================================================

// SaveRate appends a rate record and bumps the rule version.
func (s *Store) SaveRate(ctx context.Context, r regulatory.MinimumWageRate) error {
	var tipped, nextAt, nextRate sql.NullString
	if r.TippedRate != nil {
		tipped = sql.NullString{String: r.TippedRate.String(), Valid: true}
	}
	if r.NextIncreaseAt != nil {
		nextAt = sql.NullString{String: r.NextIncreaseAt.Format(dateFormat), Valid: true}
	}
	if r.NextIncreaseRate != nil {
		nextRate = sql.NullString{String: r.NextIncreaseRate.String(), Valid: true}
	}

	return s.withBump(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO wage_rates
				(id, jurisdiction, region, rate, tipped_rate, effective_at, next_increase_at, next_increase_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, string(r.Jurisdiction), r.Region, r.Rate.String(), tipped,
			r.EffectiveAt.Format(dateFormat), nextAt, nextRate)
		return err
	})
}

// SaveRule appends an overtime rule and bumps the rule version.
func (s *Store) SaveRule(ctx context.Context, r regulatory.OvertimeRule) error {
	exempt, err := json.Marshal(r.ExemptCategories)
	if err != nil {
		return err
	}
	var daily sql.NullString
	if r.DailyThreshold != nil {
		daily = sql.NullString{String: r.DailyThreshold.String(), Valid: true}
	}

	return s.withBump(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO overtime_rules
				(id, jurisdiction, region, daily_threshold, weekly_threshold, multiplier, exempt_categories, effective_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, string(r.Jurisdiction), r.Region, daily, r.WeeklyThreshold.String(),
			r.Multiplier.String(), string(exempt), r.EffectiveAt.Format(dateFormat))
		return err
	})
}

// LoadRuleTable replaces the full rate/rule set in one transaction
// (scenario and seed loading).
func (s *Store) LoadRuleTable(ctx context.Context, rates []regulatory.MinimumWageRate, rules []regulatory.OvertimeRule) error {
	return s.withBump(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM wage_rates`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM overtime_rules`); err != nil {
			return err
		}
		for _, r := range rates {
			var tipped, nextAt, nextRate sql.NullString
			if r.TippedRate != nil {
				tipped = sql.NullString{String: r.TippedRate.String(), Valid: true}
			}
			if r.NextIncreaseAt != nil {
				nextAt = sql.NullString{String: r.NextIncreaseAt.Format(dateFormat), Valid: true}
			}
			if r.NextIncreaseRate != nil {
				nextRate = sql.NullString{String: r.NextIncreaseRate.String(), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO wage_rates
					(id, jurisdiction, region, rate, tipped_rate, effective_at, next_increase_at, next_increase_rate)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, string(r.Jurisdiction), r.Region, r.Rate.String(), tipped,
				r.EffectiveAt.Format(dateFormat), nextAt, nextRate); err != nil {
				return err
			}
		}
		for _, r := range rules {
			exempt, err := json.Marshal(r.ExemptCategories)
			if err != nil {
				return err
			}
			var daily sql.NullString
			if r.DailyThreshold != nil {
				daily = sql.NullString{String: r.DailyThreshold.String(), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO overtime_rules
					(id, jurisdiction, region, daily_threshold, weekly_threshold, multiplier, exempt_categories, effective_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, string(r.Jurisdiction), r.Region, daily, r.WeeklyThreshold.String(),
				r.Multiplier.String(), string(exempt), r.EffectiveAt.Format(dateFormat)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) withBump(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE meta SET value = value + 1 WHERE key = 'rule_version'`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ruleVersion(ctx context.Context) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'rule_version'`).Scan(&v)
	return v, err
}

func (s *Store) allRates(ctx context.Context) ([]regulatory.MinimumWageRate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, jurisdiction, region, rate, tipped_rate, effective_at, next_increase_at, next_increase_rate
		FROM wage_rates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []regulatory.MinimumWageRate
	for rows.Next() {
		var r regulatory.MinimumWageRate
		var jurisdiction, rate, effectiveAt string
		var tipped, nextAt, nextRate sql.NullString
		if err := rows.Scan(&r.ID, &jurisdiction, &r.Region, &rate, &tipped, &effectiveAt, &nextAt, &nextRate); err != nil {
			return nil, err
		}
		r.Jurisdiction = regulatory.Jurisdiction(jurisdiction)
		if r.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, err
		}
		if r.EffectiveAt, err = time.Parse(dateFormat, effectiveAt); err != nil {
			return nil, err
		}
		if tipped.Valid {
			v, err := decimal.NewFromString(tipped.String)
			if err != nil {
				return nil, err
			}
			r.TippedRate = &v
		}
		if nextAt.Valid {
			t, err := time.Parse(dateFormat, nextAt.String)
			if err != nil {
				return nil, err
			}
			r.NextIncreaseAt = &t
		}
		if nextRate.Valid {
			v, err := decimal.NewFromString(nextRate.String)
			if err != nil {
				return nil, err
			}
			r.NextIncreaseRate = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) allRules(ctx context.Context) ([]regulatory.OvertimeRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, jurisdiction, region, daily_threshold, weekly_threshold, multiplier, exempt_categories, effective_at
		FROM overtime_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []regulatory.OvertimeRule
	for rows.Next() {
		var r regulatory.OvertimeRule
		var jurisdiction, weekly, multiplier, exempt, effectiveAt string
		var daily sql.NullString
		if err := rows.Scan(&r.ID, &jurisdiction, &r.Region, &daily, &weekly, &multiplier, &exempt, &effectiveAt); err != nil {
			return nil, err
		}
		r.Jurisdiction = regulatory.Jurisdiction(jurisdiction)
		if r.WeeklyThreshold, err = decimal.NewFromString(weekly); err != nil {
			return nil, err
		}
		if r.Multiplier, err = decimal.NewFromString(multiplier); err != nil {
			return nil, err
		}
		if daily.Valid {
			v, err := decimal.NewFromString(daily.String)
			if err != nil {
				return nil, err
			}
			r.DailyThreshold = &v
		}
		if err := json.Unmarshal([]byte(exempt), &r.ExemptCategories); err != nil {
			return nil, err
		}
		if r.EffectiveAt, err = time.Parse(dateFormat, effectiveAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Snapshot implements regulatory.Snapshotter with one consistent read of
// the full rule set.
func (s *Store) Snapshot(ctx context.Context) (*regulatory.Snapshot, error) {
	version, err := s.ruleVersion(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.allRates(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.allRules(ctx)
	if err != nil {
		return nil, err
	}
	return regulatory.NewSnapshot(version, time.Now().UTC(), rates, rules), nil
}

// RatesForLocation implements regulatory.Repository.
func (s *Store) RatesForLocation(ctx context.Context, loc regulatory.Location, asOf time.Time) ([]regulatory.MinimumWageRate, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.RatesForLocation(ctx, loc, asOf)
}

// RulesForLocation implements regulatory.Repository.
func (s *Store) RulesForLocation(ctx context.Context, loc regulatory.Location, asOf time.Time) ([]regulatory.OvertimeRule, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.RulesForLocation(ctx, loc, asOf)
}

var _ regulatory.Repository = (*Store)(nil)
var _ regulatory.Snapshotter = (*Store)(nil)

// =============================================================================
// WORKFORCE DIRECTORY
// =============================================================================

// SaveWageRecord upserts a worker's wage record (seed/scenario path).
func (s *Store) SaveWageRecord(ctx context.Context, rec workforce.WageRecord) error {
	tipped := 0
	if rec.Tipped {
		tipped = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers (worker_id, name, hourly_rate, location, job_category, tipped)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id) DO UPDATE SET
			name = excluded.name,
			hourly_rate = excluded.hourly_rate,
			location = excluded.location,
			job_category = excluded.job_category,
			tipped = excluded.tipped`,
		rec.WorkerID, rec.Name, rec.HourlyRate.String(), rec.Location, rec.JobCategory, tipped)
	return err
}

// SaveTimeRecord upserts a pay-period time record (seed/scenario path).
func (s *Store) SaveTimeRecord(ctx context.Context, rec workforce.TimeRecord) error {
	if !rec.Period.Valid() {
		return workforce.ErrInvalidPayPeriod
	}
	daily := make([]string, len(rec.DailyHours))
	for i, h := range rec.DailyHours {
		daily[i] = h.String()
	}
	dailyJSON, err := json.Marshal(daily)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO time_records
			(worker_id, period_start, period_end, name, location, daily_hours,
			 total_hours, overtime_paid, overtime_comped, hourly_rate, job_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, period_start, period_end) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			daily_hours = excluded.daily_hours,
			total_hours = excluded.total_hours,
			overtime_paid = excluded.overtime_paid,
			overtime_comped = excluded.overtime_comped,
			hourly_rate = excluded.hourly_rate,
			job_category = excluded.job_category`,
		rec.WorkerID, rec.Period.Start.Format(dateFormat), rec.Period.End.Format(dateFormat),
		rec.Name, rec.Location, string(dailyJSON), rec.TotalHours.String(),
		rec.OvertimePaid.String(), rec.OvertimeComped.String(),
		rec.HourlyRate.String(), rec.JobCategory)
	return err
}

// WageRecord implements workforce.Directory.
func (s *Store) WageRecord(ctx context.Context, workerID string) (*workforce.WageRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT worker_id, name, hourly_rate, location, job_category, tipped
		FROM workers WHERE worker_id = ?`, workerID)
	rec, err := scanWageRecord(row)
	if err == sql.ErrNoRows {
		return nil, &workforce.WorkerNotFoundError{WorkerID: workerID}
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// TimeRecord implements workforce.Directory.
func (s *Store) TimeRecord(ctx context.Context, workerID string, period workforce.PayPeriod) (*workforce.TimeRecord, error) {
	if !period.Valid() {
		return nil, workforce.ErrInvalidPayPeriod
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, period_start, period_end, name, location, daily_hours,
		       total_hours, overtime_paid, overtime_comped, hourly_rate, job_category
		FROM time_records
		WHERE worker_id = ? AND period_start = ? AND period_end = ?`,
		workerID, period.Start.Format(dateFormat), period.End.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, &workforce.WorkerNotFoundError{WorkerID: workerID}
	}
	return scanTimeRecord(rows)
}

// ListWageRecords implements workforce.Directory.
func (s *Store) ListWageRecords(ctx context.Context) ([]workforce.WageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, name, hourly_rate, location, job_category, tipped
		FROM workers ORDER BY worker_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.WageRecord
	for rows.Next() {
		rec, err := scanWageRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ListTimeRecords implements workforce.Directory.
func (s *Store) ListTimeRecords(ctx context.Context) ([]workforce.TimeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, period_start, period_end, name, location, daily_hours,
		       total_hours, overtime_paid, overtime_comped, hourly_rate, job_category
		FROM time_records ORDER BY worker_id, period_start`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.TimeRecord
	for rows.Next() {
		rec, err := scanTimeRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

var _ workforce.Directory = (*Store)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWageRecord(row rowScanner) (*workforce.WageRecord, error) {
	var rec workforce.WageRecord
	var rate string
	var tipped int
	if err := row.Scan(&rec.WorkerID, &rec.Name, &rate, &rec.Location, &rec.JobCategory, &tipped); err != nil {
		return nil, err
	}
	var err error
	if rec.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	rec.Tipped = tipped != 0
	return &rec, nil
}

func scanTimeRecord(row rowScanner) (*workforce.TimeRecord, error) {
	var rec workforce.TimeRecord
	var start, end, dailyJSON, total, paid, comped, rate string
	if err := row.Scan(&rec.WorkerID, &start, &end, &rec.Name, &rec.Location,
		&dailyJSON, &total, &paid, &comped, &rate, &rec.JobCategory); err != nil {
		return nil, err
	}

	var err error
	if rec.Period.Start, err = time.Parse(dateFormat, start); err != nil {
		return nil, err
	}
	if rec.Period.End, err = time.Parse(dateFormat, end); err != nil {
		return nil, err
	}

	var daily []string
	if err := json.Unmarshal([]byte(dailyJSON), &daily); err != nil {
		return nil, err
	}
	rec.DailyHours = make([]decimal.Decimal, len(daily))
	for i, h := range daily {
		if rec.DailyHours[i], err = decimal.NewFromString(h); err != nil {
			return nil, err
		}
	}

	if rec.TotalHours, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	if rec.OvertimePaid, err = decimal.NewFromString(paid); err != nil {
		return nil, err
	}
	if rec.OvertimeComped, err = decimal.NewFromString(comped); err != nil {
		return nil, err
	}
	if rec.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	return &rec, nil
}

// =============================================================================
// SCORE TREND
// =============================================================================

// Record implements compliance.TrendSink. Snapshots are append-only.
func (s *Store) Record(ctx context.Context, snap compliance.ScoreSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO score_snapshots (run_id, at, score, violations)
		VALUES (?, ?, ?, ?)`,
		snap.RunID, snap.At.UTC().Format(time.RFC3339Nano), snap.Score, snap.Violations)
	return err
}

// Recent implements compliance.TrendSink, returning up to n snapshots
// oldest first.
func (s *Store) Recent(ctx context.Context, n int) ([]compliance.ScoreSnapshot, error) {
	if n <= 0 {
		n = 30
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, at, score, violations FROM score_snapshots
		ORDER BY at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.ScoreSnapshot
	for rows.Next() {
		var snap compliance.ScoreSnapshot
		var at string
		if err := rows.Scan(&snap.RunID, &at, &snap.Score, &snap.Violations); err != nil {
			return nil, err
		}
		if snap.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

var _ compliance.TrendSink = (*Store)(nil)

// Reset clears all data (dev/scenario use only).
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"wage_rates", "overtime_rules", "workers", "time_records", "score_snapshots"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	_, err := s.db.ExecContext(ctx, `UPDATE meta SET value = value + 1 WHERE key = 'rule_version'`)
	return err
}
