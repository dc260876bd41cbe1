package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when a stored credential is not a PHC
// argon2id string this package can verify.
var ErrMalformedHash = errors.New("malformed password hash")

// ArgonParams are the argon2id cost settings recorded in every hash.
type ArgonParams struct {
	Time    uint32 // passes over memory
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgonParams follow the OWASP argon2id baseline.
var DefaultArgonParams = ArgonParams{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// Hasher produces and checks salted argon2id credentials.
type Hasher struct {
	params ArgonParams
}

// NewHasher returns a Hasher using p for new hashes. Verification always
// uses the parameters stored in the hash itself.
func NewHasher(p ArgonParams) *Hasher {
	return &Hasher{params: p}
}

var defaultHasher = NewHasher(DefaultArgonParams)

// HashPassword hashes password with the default parameters.
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// VerifyPassword checks password against a stored hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return defaultHasher.Verify(password, encodedHash)
}

// Hash returns $argon2id$v=19$m=<KiB>,t=<passes>,p=<threads>$<salt>$<key>
// with a fresh random salt. The plaintext never appears in the output.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	p := h.params
	enc := phc{
		params: p,
		salt:   salt,
		key:    argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen),
	}
	return enc.String(), nil
}

// Verify reports whether password matches encodedHash. A wrong password is
// (false, nil). A hash that cannot be parsed is (false, ErrMalformedHash).
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	stored, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	p := stored.params
	candidate := argon2.IDKey([]byte(password), stored.salt, p.Time, p.Memory, p.Threads, uint32(len(stored.key))) //nolint:gosec // G115: key length fits uint32
	return subtle.ConstantTimeCompare(stored.key, candidate) == 1, nil
}

// phc is a decoded argon2id credential.
type phc struct {
	params ArgonParams
	salt   []byte
	key    []byte
}

func (p phc) String() string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.params.Memory, p.params.Time, p.params.Threads,
		b64.EncodeToString(p.salt), b64.EncodeToString(p.key))
}

func parsePHC(encoded string) (phc, error) {
	var out phc

	// "" / "argon2id" / "v=19" / params / salt / key
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" { //nolint:mnd // PHC field count
		return out, fmt.Errorf("%w: want 6 $-separated fields", ErrMalformedHash)
	}
	if fields[1] != "argon2id" {
		return out, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, fields[1])
	}
	if fields[2] != "v="+strconv.Itoa(argon2.Version) {
		return out, fmt.Errorf("%w: version %q", ErrMalformedHash, fields[2])
	}

	for _, kv := range strings.Split(fields[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return out, fmt.Errorf("%w: parameter %q", ErrMalformedHash, kv)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return out, fmt.Errorf("%w: parameter %q", ErrMalformedHash, kv)
		}
		switch k {
		case "m":
			out.params.Memory = uint32(n)
		case "t":
			out.params.Time = uint32(n)
		case "p":
			if n > 255 { //nolint:mnd // uint8 range
				return out, fmt.Errorf("%w: parallelism %d", ErrMalformedHash, n)
			}
			out.params.Threads = uint8(n)
		default:
			return out, fmt.Errorf("%w: unknown parameter %q", ErrMalformedHash, k)
		}
	}
	if out.params.Memory == 0 || out.params.Time == 0 || out.params.Threads == 0 {
		return out, fmt.Errorf("%w: zero cost parameter", ErrMalformedHash)
	}

	var err error
	if out.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return out, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	if out.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return out, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}
	if len(out.key) == 0 {
		return out, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}
	out.params.SaltLen = uint32(len(out.salt)) //nolint:gosec // G115: decoded length fits uint32
	out.params.KeyLen = uint32(len(out.key))   //nolint:gosec // G115: decoded length fits uint32
	return out, nil
}
