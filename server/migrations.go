package server

import (
	"github.com/ridgepath/traillog/postgres"
	"gorm.io/gorm"
)

// migrations run once each, in order, tracked by key.
var migrations = []postgres.Migration{
	{
		Key: "0001_create_users_table",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE users (
					id BIGSERIAL PRIMARY KEY,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					username TEXT NOT NULL,
					email TEXT NOT NULL,
					password_hash TEXT NOT NULL,
					CONSTRAINT users_username_key UNIQUE (username),
					CONSTRAINT users_email_key UNIQUE (email)
				);
			`).Error
		},
	},
	{
		Key: "0002_create_trail_entries_table",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE trail_entries (
					id BIGSERIAL PRIMARY KEY,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					trailname VARCHAR(200) NOT NULL,
					latitude VARCHAR(200) NOT NULL,
					longitude VARCHAR(200) NOT NULL,
					date_traveled VARCHAR(10) NOT NULL,
					user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE
				);
			`).Error
		},
	},
	{
		Key: "0003_index_trail_entries_on_owner_and_age",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE INDEX trail_entries_user_id_created_at_idx
					ON trail_entries (user_id, created_at);
			`).Error
		},
	},
}
