package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id               BIGSERIAL PRIMARY KEY,
		email            TEXT NOT NULL UNIQUE,
		name             TEXT,
		password_hash    TEXT,
		wallet_address   TEXT UNIQUE,
		twitter_username TEXT,
		twitter_followed BOOLEAN NOT NULL DEFAULT FALSE,
		discord_username TEXT,
		discord_joined   BOOLEAN NOT NULL DEFAULT FALSE,
		referral_code    TEXT NOT NULL UNIQUE,
		referred_by_code TEXT,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id             BIGSERIAL PRIMARY KEY,
		referrer_email TEXT NOT NULL,
		referred_email TEXT NOT NULL UNIQUE,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS referrals_referrer_email_idx ON referrals (referrer_email)`,
	`CREATE OR REPLACE FUNCTION get_referral_leaderboard()
	RETURNS TABLE (id BIGINT, email TEXT, name TEXT, created_at TIMESTAMPTZ, referral_count BIGINT)
	LANGUAGE sql STABLE AS $$
		SELECT e.id, e.email, e.name, e.created_at, COUNT(r.referred_email)
		FROM waitlist_entries e
		LEFT JOIN referrals r ON r.referrer_email = e.email
		GROUP BY e.id, e.email, e.name, e.created_at
		ORDER BY COUNT(r.referred_email) DESC, e.id ASC
	$$`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		email            TEXT NOT NULL UNIQUE,
		name             TEXT,
		password_hash    TEXT,
		wallet_address   TEXT UNIQUE,
		twitter_username TEXT,
		twitter_followed BOOLEAN NOT NULL DEFAULT 0,
		discord_username TEXT,
		discord_joined   BOOLEAN NOT NULL DEFAULT 0,
		referral_code    TEXT NOT NULL UNIQUE,
		referred_by_code TEXT,
		created_at       DATETIME NOT NULL,
		updated_at       DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		referrer_email TEXT NOT NULL,
		referred_email TEXT NOT NULL UNIQUE,
		created_at     DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS referrals_referrer_email_idx ON referrals (referrer_email)`,
}

// Migrate creates the waitlist schema if it does not exist yet. On Postgres it
// also installs get_referral_leaderboard for consumers that read the store directly.
func (r *Repository) Migrate(ctx context.Context) error {
	statements := postgresSchema
	if r.driver == DriverSQLite {
		statements = sqliteSchema
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
