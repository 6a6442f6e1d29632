package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS enrollments (
		user_id      TEXT PRIMARY KEY,
		start_date   TEXT NOT NULL,
		ascent_start TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS resources (
		id               TEXT PRIMARY KEY,
		type             TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS session_types (
		id    TEXT PRIMARY KEY,
		kind  TEXT NOT NULL CHECK(kind IN ('coaching','community')),
		title TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS period_configs (
		id         TEXT PRIMARY KEY,
		phase      TEXT NOT NULL CHECK(phase IN ('prestart','milestone','ascent')),
		number     INTEGER NOT NULL DEFAULT 0,
		section    TEXT NOT NULL DEFAULT ''
		           CHECK(section IN ('','onboarding','session1','explore')),
		day        INTEGER NOT NULL DEFAULT 0,
		title      TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_period_configs_phase ON period_configs(phase, number)`,

	// One row per entry of the four definition lists of a period.
	`CREATE TABLE IF NOT EXISTS period_entries (
		period_id     TEXT NOT NULL REFERENCES period_configs(id) ON DELETE CASCADE,
		list          TEXT NOT NULL CHECK(list IN ('action','weekly','session','form')),
		position      INTEGER NOT NULL,
		entry_id      TEXT NOT NULL DEFAULT '',
		label         TEXT NOT NULL DEFAULT '',
		content_type  TEXT NOT NULL DEFAULT '',
		optional      INTEGER NOT NULL DEFAULT 0,
		resource_id   TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		strategy      TEXT NOT NULL DEFAULT '',
		slot_key      TEXT NOT NULL DEFAULT '',
		handler_tag   TEXT NOT NULL DEFAULT '',
		form          TEXT NOT NULL DEFAULT '',
		session_type  TEXT NOT NULL DEFAULT '',
		session_kind  TEXT NOT NULL DEFAULT '',
		certifies     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (period_id, list, position)
	)`,

	`CREATE TABLE IF NOT EXISTS progress_records (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL,
		item_id             TEXT NOT NULL,
		status              TEXT NOT NULL
		                    CHECK(status IN ('pending','completed','skipped')),
		label               TEXT NOT NULL DEFAULT '',
		handler_tag         TEXT NOT NULL DEFAULT '',
		origin_phase        TEXT NOT NULL DEFAULT '',
		origin_phase_number INTEGER NOT NULL DEFAULT 0,
		origin_week         INTEGER NOT NULL DEFAULT 0,
		carried_over        INTEGER NOT NULL DEFAULT 0,
		category            TEXT NOT NULL DEFAULT 'content',
		completed_at        TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL,
		UNIQUE(user_id, item_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_user ON progress_records(user_id)`,

	`CREATE TABLE IF NOT EXISTS session_registrations (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		session_id      TEXT NOT NULL,
		item_id         TEXT NOT NULL,
		session_title   TEXT NOT NULL DEFAULT '',
		session_type_id TEXT NOT NULL DEFAULT '',
		kind            TEXT NOT NULL DEFAULT 'coaching'
		                CHECK(kind IN ('coaching','community')),
		milestone       INTEGER NOT NULL DEFAULT 0,
		coach_name      TEXT NOT NULL DEFAULT '',
		starts_at       TEXT,
		status          TEXT NOT NULL
		                CHECK(status IN ('registered','attended','certified','cancelled')),
		cancel_reason   TEXT NOT NULL DEFAULT '',
		certified_by    TEXT NOT NULL DEFAULT '',
		registered_at   TEXT NOT NULL,
		attended_at     TEXT,
		certified_at    TEXT,
		cancelled_at    TEXT,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_user ON session_registrations(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_item ON session_registrations(user_id, item_id)`,

	`CREATE TABLE IF NOT EXISTS milestone_progress (
		user_id               TEXT NOT NULL,
		milestone             INTEGER NOT NULL CHECK(milestone BETWEEN 1 AND 5),
		signed_off            INTEGER NOT NULL DEFAULT 0,
		signed_off_at         TEXT,
		signed_off_by         TEXT NOT NULL DEFAULT '',
		certificate_viewed    INTEGER NOT NULL DEFAULT 0,
		certificate_viewed_at TEXT,
		updated_at            TEXT NOT NULL,
		PRIMARY KEY (user_id, milestone)
	)`,

	`CREATE TABLE IF NOT EXISTS form_status (
		user_id    TEXT NOT NULL,
		form_kind  TEXT NOT NULL,
		submitted  INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, form_kind)
	)`,

	`CREATE TABLE IF NOT EXISTS carry_over_memos (
		user_id    TEXT NOT NULL,
		session_id TEXT NOT NULL,
		item_id    TEXT NOT NULL,
		position   INTEGER NOT NULL,
		PRIMARY KEY (user_id, session_id, item_id)
	)`,
}
