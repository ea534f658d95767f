package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgoArgon2id = "argon2id"
	AlgoBcrypt   = "bcrypt"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported password algorithm")

// 校验时接受的参数上限，超出视为损坏的哈希
const (
	maxArgon2MemoryK = 1 << 20 // 1 GiB
	maxArgon2KeyLen  = 128
)

// PasswordHasher 单向加盐哈希 + 校验
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type Argon2Params struct {
	Time    uint32
	MemoryK uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

var DefaultArgon2 = Argon2Params{Time: 2, MemoryK: 64 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

type Hasher struct {
	Algorithm  string // argon2id（默认）/ bcrypt
	BcryptCost int
	Argon2     Argon2Params
}

func NewHasher(algorithm string, bcryptCost int, p Argon2Params) (*Hasher, error) {
	switch algorithm {
	case "", AlgoArgon2id:
		algorithm = AlgoArgon2id
	case AlgoBcrypt:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if p.Time == 0 || p.MemoryK == 0 || p.Threads == 0 {
		p = DefaultArgon2
	}
	if p.SaltLen == 0 {
		p.SaltLen = DefaultArgon2.SaltLen
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultArgon2.KeyLen
	}
	return &Hasher{Algorithm: algorithm, BcryptCost: bcryptCost, Argon2: p}, nil
}

func (h *Hasher) Hash(plain string) (string, error) {
	if h.Algorithm == AlgoBcrypt {
		// 超过 72 字节 bcrypt 会直接报错
		b, err := bcrypt.GenerateFromPassword([]byte(plain), h.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	}
	return h.hashArgon2(plain)
}

// Verify 按存储前缀分派，切换算法后旧哈希仍可校验
func (h *Hasher) Verify(plain, hashed string) bool {
	switch {
	case strings.HasPrefix(hashed, "$argon2id$"):
		return verifyArgon2(plain, hashed)
	case strings.HasPrefix(hashed, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
	default:
		return false
	}
}

// 格式：$argon2id$v=19$m=65536,t=2,p=1$<salt>$<key>
func (h *Hasher) hashArgon2(plain string) (string, error) {
	p := h.Argon2
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2 salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, p.Time, p.MemoryK, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryK, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2(plain, encoded string) bool {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 {
		return false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	var mem, tm uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &tm, &threads); err != nil {
		return false
	}
	// IDKey 对 t=0 / p=0 会 panic
	if tm == 0 || threads == 0 || mem == 0 || mem > maxArgon2MemoryK {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > maxArgon2KeyLen {
		return false
	}
	got := argon2.IDKey([]byte(plain), salt, tm, mem, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// HashPassword 使用默认参数的便捷方法
func HashPassword(pw string) (string, error) {
	h, _ := NewHasher(AlgoArgon2id, 0, DefaultArgon2)
	return h.Hash(pw)
}

func CheckPassword(pw, hashed string) bool {
	return (&Hasher{}).Verify(pw, hashed)
}
