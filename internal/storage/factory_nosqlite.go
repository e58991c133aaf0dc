//go:build !sqlite

package storage

import "errors"

func newSQLiteStore(_ string) (Store, error) {
	return nil, errors.New("sqlite support not compiled in; build with -tags sqlite")
}
