package plaindb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/pkg/errors"
)

// Parser validates and decodes a single record of a bucket file
type Parser interface {
	// Parse parses the raw JSON record stored under key 'id'
	Parse(id string, data json.RawMessage) (interface{}, error)
}

// ParserFunc makes it easy to use a function as a Parser
type ParserFunc func(id string, data json.RawMessage) (interface{}, error)

// Parse implements the Parser interface
func (p ParserFunc) Parse(id string, data json.RawMessage) (interface{}, error) {
	return p(id, data)
}

// DB opens buckets backed by JSON files
type DB interface {
	io.Closer
	// Bucket returns the bucket stored at 'path'. A missing file is an empty bucket.
	Bucket(path string, parser Parser) (Bucket, error)
}

type database struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// Open returns a DB which reads and writes bucket files on disk
func Open() DB {
	return &database{
		buckets: make(map[string]*bucket),
	}
}

func (db *database) Bucket(path string, parser Parser) (Bucket, error) {
	return db.bucket(path, parser, ioutil.ReadFile, saveBucket)
}

func (db *database) bucket(
	path string,
	parser Parser,
	readFile func(string) ([]byte, error),
	saveFn func(*bucket) error,
) (Bucket, error) {
	if parser == nil {
		return nil, errors.New("Parser must not be nil")
	}
	if path == "" {
		return nil, errors.New("Bucket path must not be empty")
	}
	path = filepath.Clean(path)

	db.mu.Lock()
	defer db.mu.Unlock()
	if b, exists := db.buckets[path]; exists {
		return b, nil
	}

	data, err := load(path, parser, readFile)
	if err != nil {
		return nil, err
	}
	b := &bucket{
		path:   path,
		saveFn: saveFn,
		data:   data,
	}
	db.buckets[path] = b
	return b, nil
}

// load reads the JSON object at path and parses every record in it
func load(path string, parser Parser, readFile func(string) ([]byte, error)) (map[string]interface{}, error) {
	dataBytes, err := readFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, sErrors.Storage(path, errors.Wrapf(err, "Failed to read %q", path))
		}
		dataBytes = []byte(`{}`)
	}
	if len(dataBytes) == 0 {
		// mock readers return nothing for files that don't exist
		dataBytes = []byte(`{}`)
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(dataBytes, &records); err != nil {
		return nil, sErrors.Corrupt(path, err)
	}
	if records == nil {
		return nil, sErrors.Corrupt(path, errors.New("Expected a JSON object"))
	}

	data := make(map[string]interface{}, len(records))
	for id, raw := range records {
		value, err := parser.Parse(id, raw)
		if err != nil {
			return nil, sErrors.Corrupt(path, errors.Wrapf(err, "Record %q", id))
		}
		data[id] = value
	}
	return data, nil
}

// Close locks all buckets to prepare for safe shutdown. Use after close has been called is not defined.
func (db *database) Close() error {
	if db == nil {
		return nil
	}
	db.close(func(b *bucket) {
		b.mu.Lock()
	})
	return nil
}

func (db *database) close(lock func(*bucket)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, b := range db.buckets {
		lock(b)
	}
}

// MockDB is a DB with additional mocking utilities
type MockDB interface {
	DB
	Dump(Bucket) string
}

type mockDatabase struct {
	database
	MockConfig
}

// MockConfig contains stubs for a full MockDB
type MockConfig struct {
	FileReader func(path string) ([]byte, error)
	Saver      func(Bucket) error
}

// NewMockDB creates a new DB without a backing file store, to be used in tests
func NewMockDB(conf MockConfig) MockDB {
	if conf.FileReader == nil {
		conf.FileReader = func(string) ([]byte, error) { return nil, nil }
	}
	if conf.Saver == nil {
		conf.Saver = func(Bucket) error { return nil }
	}
	return &mockDatabase{
		database: database{
			buckets: map[string]*bucket{},
		},
		MockConfig: conf,
	}
}

func (db *mockDatabase) Bucket(path string, parser Parser) (Bucket, error) {
	return db.bucket(path, parser, db.FileReader, func(b *bucket) error { return db.Saver(b) })
}

func (db *mockDatabase) Dump(b Bucket) string {
	bucketStruct, ok := b.(*bucket)
	if !ok {
		panic(fmt.Sprintf("Invalid bucket struct for MockDB.Dump: %T", b))
	}
	if db.buckets[bucketStruct.path] != bucketStruct {
		panic("Invalid bucket for MockDB.Dump: Bucket was not created by MockDB")
	}
	var buf bytes.Buffer
	if err := encodeBucket(&buf, bucketStruct); err != nil {
		panic(err)
	}
	return buf.String()
}
