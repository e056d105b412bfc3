// Package id generates the identifiers used outside the kernel core.
//
// Descriptor handles are small integers that are reused after release and
// after every boot, so they cannot tell two lifetimes apart. Boot IDs and
// request IDs fill that gap: both are ULIDs, which sort by creation time and
// make log lines from different boots easy to separate.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Typed IDs
// ============================================================================

// BootID identifies one initialisation of the kernel modules
type BootID string

// RequestID identifies one debug console request
type RequestID string

const (
	BootPrefix    = "boot"
	RequestPrefix = "req"
)

func (id BootID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }

// ============================================================================
// Generator
// ============================================================================

// Generator produces monotonic ULIDs
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(rand.Reader)
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// IDs generated within the same millisecond stay strictly increasing.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: ulid.Monotonic(entropy, 0)}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a "prefix_ULID" string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewBootID generates a boot ID
func NewBootID() BootID {
	return BootID(Default().GenerateWithPrefix(BootPrefix))
}

// NewRequestID generates a request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// ============================================================================
// Parsing
// ============================================================================

// Parse returns the ULID part of a prefixed or bare ID
func Parse(s string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	return ulid.Parse(s)
}

// IsValid reports whether s is a bare or prefixed ULID
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Timestamp extracts the creation time of an ID
func Timestamp(s string) (time.Time, error) {
	parsed, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
