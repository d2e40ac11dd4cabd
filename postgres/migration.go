// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	"github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal request flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_slices",
			Up: []string{
				`CREATE TABLE slices(
					name TEXT PRIMARY KEY,
					data BYTEA NOT NULL,
					lease_end TIMESTAMP WITH TIME ZONE,
					updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
				)`,
				`CREATE INDEX slices_lease_end ON slices(lease_end)`,
			},
			Down: []string{
				`DROP TABLE slices`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
