// internal/infrastructure/storage/json_file.go
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// Persister loads and saves one whole collection document
type Persister interface {
	// Load decodes the stored document into dest. found is false when
	// nothing has been stored yet.
	Load(dest any) (found bool, err error)
	// Save replaces the stored document with src
	Save(src any) error
	// Name identifies the collection in logs and metrics
	Name() string
}

// JSONFile persists a collection as a single JSON document on disk.
// Writes go to a temp file in the same directory which is synced and then
// renamed over the target, so readers only ever see a complete document.
type JSONFile struct {
	mu             sync.Mutex
	dir            string
	name           string
	recoverCorrupt bool
	logger         logrus.FieldLogger
}

// NewJSONFile creates a persister for dir/name
func NewJSONFile(dir, name string, recoverCorrupt bool, logger logrus.FieldLogger) *JSONFile {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &JSONFile{
		dir:            dir,
		name:           name,
		recoverCorrupt: recoverCorrupt,
		logger:         logger.WithField("collection", name),
	}
}

// Name returns the file name
func (f *JSONFile) Name() string {
	return f.name
}

// Path returns the full path of the backing file
func (f *JSONFile) Path() string {
	return filepath.Join(f.dir, f.name)
}

// Load reads and decodes the backing file
func (f *JSONFile) Load(dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to read %s", f.name))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}

	if err := decodeInto(data, dest); err != nil {
		if !f.recoverCorrupt {
			return false, apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to decode %s", f.name))
		}
		quarantined, qErr := f.quarantine()
		if qErr != nil {
			return false, apperrors.Wrap(apperrors.KindPersistence, qErr, fmt.Sprintf("failed to quarantine corrupt %s", f.name))
		}
		f.logger.WithFields(logrus.Fields{
			"error":       err.Error(),
			"quarantined": quarantined,
		}).Error("Corrupt collection file moved aside, starting empty")
		return false, nil
	}

	return true, nil
}

// decodeInto decodes into a fresh value and stores it in dest only when
// decoding succeeds, so a rejected document never leaves partial records.
func decodeInto(data []byte, dest any) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dest)
	}

	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return err
	}
	target.Elem().Set(fresh.Elem())
	return nil
}

// Save encodes src and atomically replaces the backing file
func (f *JSONFile) Save(src any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to encode %s", f.name))
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to create data dir for %s", f.name))
	}

	tmp, err := os.CreateTemp(f.dir, "."+f.name+".tmp-*")
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to save %s", f.name))
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to save %s", f.name))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to save %s", f.name))
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to save %s", f.name))
	}
	if err := os.Rename(tmp.Name(), f.Path()); err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to save %s", f.name))
	}

	return nil
}

func (f *JSONFile) quarantine() (string, error) {
	target := fmt.Sprintf("%s.corrupt-%d", f.Path(), time.Now().Unix())
	if err := os.Rename(f.Path(), target); err != nil {
		return "", err
	}
	return target, nil
}
