package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// hashKey generates a key of the form prefix:sha256(canonical(parts)).
// parts are marshaled to JSON and canonicalized with JCS so the key does not
// depend on field order or number formatting.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err == nil {
		if canonical, cerr := jcs.Transform(data); cerr == nil {
			data = canonical
		}
	}
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashFrame hashes raw pixel data together with its dimensions, so two frames
// with the same bytes but a different shape never collide.
func HashFrame(width, height int, pix []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d:", width, height)
	h.Write(pix)
	return hex.EncodeToString(h.Sum(nil))
}
