// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

/*
Package snapshot loads the immutable catalog snapshot that every query runs
against.

A Snapshot owns two memoized collections, works and circles. Each is read
from its Source the first time it is requested and then served from memory
for the life of the process (or until Clear). A missing snapshot file is not
fatal: the loader logs a warning and memoizes an empty collection, so a
fresh checkout serves an empty catalog instead of failing to start.

Sources:

  - JSONSource reads works.json and circles.json (arrays of raw records).
  - ParquetSource reads works.parquet and circles.parquet through DuckDB.

Remote snapshots:

Fetcher downloads works.parquet and circles.parquet from
{remote_base_url}/parquet/ into the snapshot directory. Downloads are paced
by a token bucket, guarded by a circuit breaker and written through a temp
file and rename so a reader never sees a partial file.

Thread Safety:

Snapshot is safe for concurrent use. The first load of each collection is
serialized by a mutex; later reads go through an atomic pointer and take no
lock.
*/
package snapshot
