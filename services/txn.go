package services

import (
	"context"
	"errors"
	"log"
)

// maxTxnAttempts bounds the classify-then-commit retry loop. Each attempt
// re-runs the whole operation from scratch: fresh pre-fetch, fresh
// classification, fresh commit-phase reads.
const maxTxnAttempts = 4

// runTxn drives one public roster operation through the two-phase protocol.
// fn performs both phases; when the store reports that the commit's read set
// changed underneath it, the operation is retried with a fresh view, up to
// maxTxnAttempts, after which the caller gets a ConflictError.
func runTxn(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrTxConflict) {
			return err
		}
		log.Printf("🔁 %s: commit conflicted (attempt %d/%d), re-reading and retrying", op, attempt, maxTxnAttempts)
	}
	return &ConflictError{Op: op}
}
