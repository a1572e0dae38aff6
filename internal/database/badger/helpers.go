// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v2"
	"github.com/kushti/mpt/internal/database"
)

// ErrBatchTooBig is returned when a write batch does not fit in
// a single badger transaction, in which case nothing is written.
var ErrBatchTooBig = errors.New("write batch too big for a single transaction")

// transformError transforms a badger error into a database error
// eventually, for errors defined in the parent database package.
func transformError(badgerErr error) (err error) {
	switch {
	case badgerErr == nil:
		return nil
	case errors.Is(badgerErr, badger.ErrTxnTooBig):
		return fmt.Errorf("%w: %s", ErrBatchTooBig, badgerErr)
	case strings.Contains(badgerErr.Error(), "closed"):
		// badger v2 does not export a closed database sentinel error.
		return fmt.Errorf("%w: %s", database.ErrClosed, badgerErr)
	}
	return badgerErr
}
