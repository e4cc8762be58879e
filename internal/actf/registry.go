package actf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry errors.
var (
	ErrNotFound    = errors.New("activation function not found")
	ErrExists      = errors.New("activation function already registered")
	ErrInvalidCode = errors.New("invalid activation function code")
)

var registry = struct {
	mu sync.RWMutex
	m  map[string]Function
}{
	m: make(map[string]Function),
}

func init() {
	registerBuiltins()
}

func registerBuiltins() {
	for _, fn := range []Function{ID, LGS, GSS, TANS, SIN, RELU, SELU, SRLU, EXP} {
		MustRegister(fn)
	}
}

// Register makes fn available under fn.IDCode().
//
// Codes must be non-empty and must not contain whitespace, since they are
// embedded in textual network descriptions.
func Register(fn Function) error {
	if fn == nil {
		return fmt.Errorf("%w: nil function", ErrInvalidCode)
	}
	code := fn.IDCode()
	if code == "" || strings.ContainsAny(code, " \t\n\r") {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.m[code]; exists {
		return fmt.Errorf("%w: %s", ErrExists, code)
	}
	registry.m[code] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(fn Function) {
	if err := Register(fn); err != nil {
		panic(err)
	}
}

// Lookup returns the activation function registered under code.
func Lookup(code string) (Function, error) {
	registry.mu.RLock()
	fn, ok := registry.m[code]
	registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return fn, nil
}

// Codes returns all registered codes in sorted order.
func Codes() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	codes := make([]string, 0, len(registry.m))
	for code := range registry.m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func resetRegistryForTests() {
	registry.mu.Lock()
	registry.m = make(map[string]Function)
	registry.mu.Unlock()
	registerBuiltins()
}
