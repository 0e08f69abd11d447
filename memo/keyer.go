package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Keyer reduces an arbitrary structured call argument to a canonical
// fixed-length digest used as the cache table's lookup key.
//
// Contract:
// - Determinism: logically equal arguments must produce the same digest,
//   regardless of field or map iteration order.
// - Separation: distinct arguments must produce distinct digests with
//   overwhelming probability.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Digest returns the canonical digest for the given argument.
	Digest(arg any) (string, error)
}

// DefaultKeyer generates SHA-256 based canonical digests.
//
// The argument is first reduced to its JSON data model (objects, arrays,
// strings, numbers, booleans, null), so a struct and a map describing the
// same object digest identically. The reduced value is then fed to the
// hash depth-first: object fields are visited in lexicographic name
// order with the name fed before its value, array elements are fed with
// their index, nulls feed a fixed sentinel, and scalars feed their
// string form. The digest is the full hash, hex encoded (64 characters).
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// nullSentinel is fed to the hash in place of null/absent values so that
// {"a": null} and {"a": ""} digest differently.
const nullSentinel = "\x00null\x00"

// Digest returns the canonical SHA-256 digest of arg, hex encoded.
func (k *DefaultKeyer) Digest(arg any) (string, error) {
	v, err := normalize(arg)
	if err != nil {
		return "", fmt.Errorf("memo: failed to canonicalize key: %w", err)
	}

	h := sha256.New()
	feedCanonical(h, v)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// normalize reduces arg to the JSON data model via a marshal round trip.
// Map and struct keys with the same JSON shape reduce to the same value.
func normalize(arg any) (any, error) {
	if arg == nil {
		return nil, nil
	}

	data, err := json.Marshal(arg)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// feedCanonical writes the canonical byte stream for v into the hash.
// Every fed token is terminated with a zero byte so adjacent tokens
// cannot run together.
func feedCanonical(w io.Writer, v any) {
	switch val := v.(type) {
	case nil:
		feedToken(w, nullSentinel)

	case map[string]any:
		// Sort field names so field order never changes the digest
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)

		feedToken(w, "{")
		for _, name := range names {
			feedToken(w, name)
			feedCanonical(w, val[name])
		}
		feedToken(w, "}")

	case []any:
		feedToken(w, "[")
		for i, elem := range val {
			feedToken(w, strconv.Itoa(i))
			feedCanonical(w, elem)
		}
		feedToken(w, "]")

	case bool:
		feedToken(w, strconv.FormatBool(val))

	case float64:
		feedToken(w, strconv.FormatFloat(val, 'g', -1, 64))

	case string:
		feedToken(w, val)

	default:
		// json.Unmarshal into any never yields other types; string form
		// keeps the digest total over anything that slips through.
		feedToken(w, fmt.Sprint(val))
	}
}

func feedToken(w io.Writer, token string) {
	io.WriteString(w, token)
	w.Write([]byte{0})
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
