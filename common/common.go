package common

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// DirMode is used for every directory created during extraction.
	DirMode os.FileMode = 0o755

	// FileMode is used when an entry carries no permission bits.
	FileMode os.FileMode = 0o644
)

// Exists reports whether something is at name. Symbolic links are
// not followed, so a dangling link exists too.
func Exists(name string) (bool, error) {
	_, err := os.Lstat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func Mkdir(dirPath string) error {
	err := os.MkdirAll(dirPath, DirMode)
	if err != nil {
		return fmt.Errorf("%s: making directory: %w", dirPath, err)
	}
	return nil
}

// WriteNewFile creates or truncates fpath, makes its parent
// directories, and copies in to it.
func WriteNewFile(fpath string, in io.Reader, fm os.FileMode) error {
	err := os.MkdirAll(filepath.Dir(fpath), DirMode)
	if err != nil {
		return fmt.Errorf("%s: making directory for file: %w", fpath, err)
	}

	fm = fm.Perm()
	if fm == 0 {
		fm = FileMode
	}

	out, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fm)
	if err != nil {
		return fmt.Errorf("%s: creating file: %w", fpath, err)
	}
	defer out.Close()

	// an existing file keeps its mode through O_TRUNC
	err = out.Chmod(fm)
	if err != nil && runtime.GOOS != "windows" {
		return fmt.Errorf("%s: changing file mode: %w", fpath, err)
	}

	if in != nil {
		if _, err = io.Copy(out, in); err != nil {
			return fmt.Errorf("%s: writing file: %w", fpath, err)
		}
	}
	return out.Close()
}
