package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// --------------------------------------------------------------------------
// Atomic Write
// --------------------------------------------------------------------------

// WriteFile durably replaces the file at path with data, such that any
// observer either sees the old complete content or the new complete content,
// never a mix. The data is first written to a temporary file in the same
// directory as the target (the same-directory requirement guarantees that
// the subsequent rename stays on one filesystem and is therefore atomic)
// and then renamed onto the target path.
//
// If writing the temporary file fails, the target is untouched. If the
// rename itself fails (disk full, permissions), a temporary file may be
// left behind as residue; it never corrupts the target, which still holds
// the previous complete content.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	// on any failure past this point, remove the temp file
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file %s: %w", tmpName, err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// ReadFile reads the complete content of the file at path. A missing file
// is reported via os.IsNotExist on the returned error, the caller decides
// whether that is an error or an empty initial state.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
