package plaindb

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/pkg/errors"
)

// Bucket reads and writes records of a single JSON file
type Bucket interface {
	// Iter iterates over all values, assigning each value to 'v', then calling fn with it's ID
	Iter(v interface{}, fn func(id string) (keepGoing bool)) error
	// Get reads the record with key 'id' into 'v'
	Get(id string, v interface{}) (found bool, err error)
	// Put writes the record 'v' with key 'id', then saves the bucket
	Put(id string, v interface{}) error
	// Remove deletes the record with key 'id', then saves the bucket. Saves nothing if 'id' was not found.
	Remove(id string) (found bool, err error)
	// Keys returns all record IDs in sorted order
	Keys() []string
	// Len returns the number of records
	Len() int
	// Path returns the file path backing this bucket
	Path() string
}

type bucket struct {
	path   string
	mu     sync.RWMutex
	saveFn func(*bucket) error

	data map[string]interface{}
}

func (b *bucket) Iter(v interface{}, fn func(id string) (keepGoing bool)) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, value := range b.data {
		if err := assign(v, value); err != nil {
			return b.wrapErr(err)
		}
		if !fn(id) {
			return nil
		}
	}
	return nil
}

func (b *bucket) Get(id string, v interface{}) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, found := b.data[id]
	if !found {
		return false, nil
	}
	return found, b.wrapErr(assign(v, value))
}

func (b *bucket) Put(id string, v interface{}) error {
	b.mu.Lock()
	b.data[id] = v
	b.mu.Unlock()
	return b.saveFn(b)
}

func (b *bucket) Remove(id string) (bool, error) {
	b.mu.Lock()
	_, found := b.data[id]
	delete(b.data, id)
	b.mu.Unlock()
	if !found {
		return false, nil
	}
	return true, b.saveFn(b)
}

func (b *bucket) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.data))
	for id := range b.data {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

func (b *bucket) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func (b *bucket) Path() string {
	return b.path
}

func (b *bucket) wrapErr(err error) error {
	return errors.Wrap(err, "Bucket "+b.path)
}

func encodeBucket(w io.Writer, b *bucket) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)

	b.mu.RLock()
	defer b.mu.RUnlock()
	return enc.Encode(b.data)
}

func saveBucket(b *bucket) (returnErr error) {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return sErrors.Storage(b.path, b.wrapErr(err))
	}
	file, err := ioutil.TempFile(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return sErrors.Storage(b.path, b.wrapErr(err))
	}
	defer func() {
		closeErr := file.Close()
		rmErr := os.Remove(file.Name()) // clean up tmp file, if it wasn't renamed
		if returnErr == nil {
			if rmErr != nil && !os.IsNotExist(rmErr) {
				returnErr = sErrors.Storage(b.path, b.wrapErr(rmErr))
			}
			if closeErr != nil {
				returnErr = sErrors.Storage(b.path, b.wrapErr(closeErr))
			}
		}
	}()

	if err := encodeBucket(file, b); err != nil {
		return sErrors.Storage(b.path, b.wrapErr(err))
	}
	if err := file.Sync(); err != nil {
		return sErrors.Storage(b.path, b.wrapErr(err))
	}
	return sErrors.Storage(b.path, b.wrapErr(os.Rename(file.Name(), b.path)))
}

// assign sets dest's pointer value to source
func assign(dest interface{}, source interface{}) (err error) {
	if dest == nil {
		return errors.New("dest must not be nil")
	}
	defer func() {
		// reflection can panic if not used perfectly. recover and wrap the error until stable
		if v := recover(); v != nil && err == nil {
			err = errors.Errorf("Reflect error during assignment: %+v", v)
		}
	}()

	destValue := reflect.ValueOf(dest)
	destType := destValue.Type()
	if destType.Kind() != reflect.Ptr {
		return errors.Errorf("dest is not a pointer: %T", dest)
	}
	// dereference pointer value and type for assignment
	destValue = destValue.Elem()
	if !destValue.CanSet() {
		return errors.Errorf("Cannot set value for %T: %+v", dest, dest)
	}
	destType = destValue.Type()

	sourceValue := reflect.ValueOf(source)
	if !sourceValue.Type().AssignableTo(destType) {
		return errors.Errorf("Type %T is not assignable to %T", source, dest)
	}
	destValue.Set(sourceValue)
	return nil
}
