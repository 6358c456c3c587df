package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the EzCoin store (PostgreSQL).
var Migrations = migrate.NewGroup("ezcoin")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_ezcoin_accounts",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ezcoin_accounts (
    address      TEXT PRIMARY KEY,
    balance      BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    version      BIGINT NOT NULL DEFAULT 0,
    transactions JSONB NOT NULL DEFAULT '[]',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ezcoin_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ezcoin_planner_events",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ezcoin_planner_events (
    owner             TEXT NOT NULL DEFAULT '',
    id                TEXT NOT NULL,
    title             TEXT NOT NULL DEFAULT '',
    description       TEXT NOT NULL DEFAULT '',
    date              TIMESTAMPTZ NOT NULL,
    is_permanent      BOOLEAN NOT NULL DEFAULT FALSE,
    ipfs_hash         TEXT NOT NULL DEFAULT '',
    nft_token_id      TEXT NOT NULL DEFAULT '',
    is_recurring      BOOLEAN NOT NULL DEFAULT FALSE,
    recurrence_type   TEXT NOT NULL DEFAULT '',
    recurrence_count  INTEGER NOT NULL DEFAULT 0,
    video_url         TEXT NOT NULL DEFAULT '',
    audio_url         TEXT NOT NULL DEFAULT '',
    reminders         JSONB NOT NULL DEFAULT '[]',
    original_event_id TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (owner, id)
);

CREATE INDEX IF NOT EXISTS idx_ezcoin_planner_events_owner_date ON ezcoin_planner_events (owner, date);
CREATE INDEX IF NOT EXISTS idx_ezcoin_planner_events_original ON ezcoin_planner_events (original_event_id) WHERE original_event_id != '';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ezcoin_planner_events`)
				return err
			},
		},
	)
}
