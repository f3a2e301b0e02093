package conv

import (
	"errors"
	"fmt"
)

// Errors returned by the convolution engine.
var (
	ErrInvalidBlockSize  = errors.New("conv: invalid block size")
	ErrLengthMismatch    = errors.New("conv: buffer length mismatch")
	ErrUnknownPath       = errors.New("conv: unknown path")
	ErrBlockSizeMismatch = errors.New("conv: kernel block size mismatch")
)

// validateBlockSize checks that blockSize is a power of two of at least 2.
func validateBlockSize(blockSize int) error {
	if blockSize < 2 || !isPowerOf2(blockSize) {
		return fmt.Errorf("%w: %d (must be a power of two >= 2)", ErrInvalidBlockSize, blockSize)
	}
	return nil
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// partitionCount returns ceil(n / blockSize), at least 1.
func partitionCount(n, blockSize int) int {
	return max(1, (n+blockSize-1)/blockSize)
}
