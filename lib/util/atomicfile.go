package util

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// WriteFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it into place, so readers never observe a
// partial write. Missing parent directories are created with dirPerm.
func WriteFileAtomic(path string, data []byte, perm, dirPerm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return oops.Wrapf(err, "failed to create directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return oops.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return oops.Wrapf(err, "failed to set permissions on %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return oops.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to replace file")
		return oops.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
