package engine

import (
	"context"
	"errors"
	"fmt"
)

// ErrVerifyMismatch is returned when a copied file's checksum differs from
// its source.
var ErrVerifyMismatch = errors.New("checksum mismatch")

// VerifyError records a single checksum mismatch.
type VerifyError struct {
	Path    string
	SrcHash string
	DstHash string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify %s: src %s, dst %s", e.Path, shortHash(e.SrcHash), shortHash(e.DstHash))
}

func (e *VerifyError) Unwrap() error { return ErrVerifyMismatch }

// VerifyFile compares BLAKE3 checksums of src and dst. A mismatch is a
// *VerifyError wrapping ErrVerifyMismatch; read failures are returned as is.
func VerifyFile(ctx context.Context, src, dst string) error {
	srcHash, err := HashFile(ctx, src)
	if err != nil {
		return err
	}
	dstHash, err := HashFile(ctx, dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return &VerifyError{Path: dst, SrcHash: srcHash, DstHash: dstHash}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
