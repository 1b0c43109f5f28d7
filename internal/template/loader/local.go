package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrTooLarge reports a document that exceeds the loader's size limit.
var ErrTooLarge = errors.New("template loader: document exceeds size limit")

// DefaultMaxSize bounds documents when Config.MaxSize is unset.
const DefaultMaxSize int64 = 8 << 20

type opener func(name string) (fs.File, error)

func osOpen(name string) (fs.File, error) {
	return os.Open(name)
}

// readLocal reads name through open, refusing directories and payloads
// larger than limit before reading them.
func readLocal(ctx context.Context, open opener, name string, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("template loader: %s is a directory", name)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, name, info.Size())
	}
	return readLimited(f, limit)
}

// readLimited reads r to EOF and fails once more than limit bytes arrive.
// A non-positive limit disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
