package keystore

import (
	"fmt"
	"os"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/util"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// FileStore is a Store persisted as a flat YAML document. Each write rewrites
// the file through a temporary file and rename, so a crash never leaves a
// half-written store behind.
type FileStore struct {
	mapStore
	path string
}

// OpenFileStore loads the store at path. A missing file yields an empty store
// that is created on first write. A file that exists but cannot be parsed is
// an error; it is never silently replaced.
func OpenFileStore(path string) (*FileStore, error) {
	log.WithFields(logger.Fields{
		"at":   "OpenFileStore",
		"path": path,
	}).Debug("opening file store")

	values, err := readStoreFile(path)
	if err != nil {
		return nil, err
	}

	fs := &FileStore{path: path}
	fs.values = values
	fs.persist = fs.writeFile
	return fs, nil
}

// Path returns the backing file.
func (fs *FileStore) Path() string { return fs.path }

// Close flushes the current contents to disk.
func (fs *FileStore) Close() error {
	return fs.writeFile(fs.Snapshot())
}

func readStoreFile(path string) (map[string]Value, error) {
	values := make(map[string]Value)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("path", path).Debug("store file not found, starting empty")
			return values, nil
		}
		return nil, oops.Wrapf(err, "failed to read store file %s", path)
	}

	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, oops.Wrapf(ErrCorruptStore, "%s: %v", path, err)
	}
	for k, x := range raw {
		v, ok := ValueOf(x)
		if !ok {
			log.WithFields(logger.Fields{
				"at":   "readStoreFile",
				"key":  k,
				"type": typeName(x),
			}).Warn("skipping unsupported value in store file")
			continue
		}
		values[k] = v
	}
	return values, nil
}

func (fs *FileStore) writeFile(values map[string]Value) error {
	raw := make(map[string]interface{}, len(values))
	for k, v := range values {
		raw[k] = v.Interface()
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return oops.Wrapf(err, "failed to encode store")
	}

	if err := util.WriteFileAtomic(fs.path, data, 0o600, 0o700); err != nil {
		return oops.Wrapf(err, "failed to persist store")
	}
	return nil
}

func typeName(x interface{}) string {
	if x == nil {
		return "null"
	}
	return fmt.Sprintf("%T", x)
}
