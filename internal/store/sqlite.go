package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/fmpulse/fmpulse/internal/accesscode"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/jmoiron/sqlx"

	_ "embed"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

//go:embed schema.sql
var schemaDefinition string

// openDatabases establishes two connections, one for read/write operations and
// one for read-only operations. This is a best practice mentioned in
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
//
// The url parameter is the path to the SQLite database file or ":memory:" for
// an in-memory database.
func openDatabases(url string) (readWrite, readOnly *sqlx.DB, err error) {
	// For in-memory databases, we need shared cache mode so that both
	// connections access the same data. Parallel tests need a unique name per
	// database to avoid sharing data. See https://www.sqlite.org/inmemorydb.html.
	readWriteMode, readMode, cacheConfig := "rwc", "ro", ""
	if strings.Contains(url, ":memory:") {
		var id string
		if id, err = accesscode.New(); err != nil {
			return nil, nil, errors.Wrap(err, "generate database name")
		}
		url = fmt.Sprintf("memdb%s%d", id, time.Now().UnixNano())
		readWriteMode, readMode, cacheConfig = "memory", "memory", "&cache=shared"
	}
	commonConfig := "_journal_mode=wal&_busy_timeout=5000&_synchronous=normal&_foreign_keys=on"

	// The options prefixed with underscore '_' are SQLite pragmas documented at
	// https://www.sqlite.org/pragma.html. The rest are URI parameters
	// documented at https://www.sqlite.org/uri.html.
	readWriteConfig := fmt.Sprintf("file:%s?mode=%s&_txlock=immediate&%s%s", url, readWriteMode, commonConfig, cacheConfig)
	readConfig := fmt.Sprintf("file:%s?mode=%s&_txlock=deferred&_query_only=true&%s%s", url, readMode, commonConfig, cacheConfig)

	if readWrite, err = sqlx.Open("sqlite3", readWriteConfig); err != nil {
		return nil, nil, errors.Wrap(err, "open read-write database")
	}
	readWrite.SetMaxOpenConns(1)
	readWrite.SetMaxIdleConns(1)
	readWrite.SetConnMaxLifetime(time.Hour)
	readWrite.SetConnMaxIdleTime(time.Hour)

	if _, err = readWrite.Exec(schemaDefinition); err != nil {
		return nil, nil, errors.Wrap(err, "initialize schema")
	}

	if readOnly, err = sqlx.Open("sqlite3", readConfig); err != nil {
		return nil, nil, errors.Wrap(err, "open read-only database")
	}
	maxReadConns := 10
	readOnly.SetMaxOpenConns(maxReadConns)
	readOnly.SetMaxIdleConns(maxReadConns)
	readOnly.SetConnMaxLifetime(time.Hour)
	readOnly.SetConnMaxIdleTime(time.Hour)

	return readWrite, readOnly, nil
}
