// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package database provides the DuckDB handle used for the Parquet flavour of
the catalog snapshot.

The catalog never keeps a live database. DuckDB is only a columnar file
reader here: each snapshot file is scanned with read_parquet and every row
is serialized with to_json, then decoded into the caller's record type with
goccy/go-json. Decoding through JSON lets the lenient record adapters in
package catalog absorb the shape differences between Parquet writers (lists
stored as LIST columns or as serialized strings, integers stored as DOUBLE).

Usage:

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	records, err := database.ReadParquet[catalog.WorkRecord](ctx, db, "data/works.parquet")

Writing:

ConvertJSONToParquet turns a JSON array file into a Parquet file with
COPY ... (FORMAT PARQUET). The catalogctl convert subcommand uses it to
prepare Parquet snapshots from JSON exports.

Thread Safety:

DB is safe for concurrent use. The connection pool is sized to the CPU
count.
*/
package database
