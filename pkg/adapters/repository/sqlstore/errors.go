package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
)

var errNoDatabaseURL = errors.New("DATABASE_URL is not set; configure it and restart the server")

// translate maps a driver error onto the domain taxonomy. It is the only
// place raw storage errors are interpreted.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrDuplicateCode
	}
	glog.Errorf("%s %+v", op, err)
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	// libsql reports remote errors as text only
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
