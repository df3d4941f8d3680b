package classpath

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	_ "modernc.org/sqlite"

	"github.com/chazu/javelin/pkg/classfile"
)

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("classpath: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ErrNotCached indicates no summary is stored under the given digest.
var ErrNotCached = errors.New("summary not cached")

// ClassSummary is the compact record kept per parsed class file. A
// stored summary means the bytes under its digest parsed cleanly once.
type ClassSummary struct {
	Name        string `cbor:"name"`
	SuperName   string `cbor:"super"`
	Major       uint16 `cbor:"major"`
	Minor       uint16 `cbor:"minor"`
	Flags       uint16 `cbor:"flags"`
	FieldCount  int    `cbor:"fields"`
	MethodCount int    `cbor:"methods"`
	SourceFile  string `cbor:"source,omitempty"`
}

// Summarize extracts the cacheable summary from a parsed class file.
func Summarize(cf *classfile.ClassFile) ClassSummary {
	name, _ := cf.ClassName()
	super, _ := cf.SuperClassName()
	source, _ := cf.SourceFile()
	return ClassSummary{
		Name:        name,
		SuperName:   super,
		Major:       cf.MajorVersion,
		Minor:       cf.MinorVersion,
		Flags:       uint16(cf.AccessFlags),
		FieldCount:  len(cf.Fields),
		MethodCount: len(cf.Methods),
		SourceFile:  source,
	}
}

// Digest computes the cache key for raw class file bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Cache stores class summaries in a SQLite database keyed by the
// SHA-256 digest of the class bytes. Content addressing makes stale
// entries impossible: edited class files hash to new keys.
type Cache struct {
	db *sql.DB
}

// OpenCache opens the summary database at path, creating the file and
// its parent directory as needed.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS summaries (
		digest TEXT PRIMARY KEY,
		summary BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Put stores the summary under the given digest, replacing any
// previous entry.
func (c *Cache) Put(digest string, s ClassSummary) error {
	blob, err := cborEncMode.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if _, err := c.db.Exec(
		"INSERT OR REPLACE INTO summaries (digest, summary) VALUES (?, ?)",
		digest, blob,
	); err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}
	log.Debugf("cached summary %s under %.12s", s.Name, digest)
	return nil
}

// Get loads the summary stored under digest. ErrNotCached when the
// digest has never been stored.
func (c *Cache) Get(digest string) (ClassSummary, error) {
	var blob []byte
	err := c.db.QueryRow("SELECT summary FROM summaries WHERE digest = ?", digest).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return ClassSummary{}, ErrNotCached
	}
	if err != nil {
		return ClassSummary{}, fmt.Errorf("querying summary: %w", err)
	}

	var s ClassSummary
	if err := cbor.Unmarshal(blob, &s); err != nil {
		return ClassSummary{}, fmt.Errorf("decoding summary: %w", err)
	}
	return s, nil
}

// Count reports how many summaries are stored.
func (c *Cache) Count() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM summaries").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting summaries: %w", err)
	}
	return n, nil
}
