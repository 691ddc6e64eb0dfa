package service

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

type argon2Params struct {
	time    uint32
	memory  uint32 // KiB
	threads uint8
	keyLen  uint32
	saltLen uint32
}

// PasswordHasher derives argon2id digests. The parameters are fixed; spec
// changes mean re-registering, which this system never does.
type PasswordHasher struct {
	params argon2Params
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		params: argon2Params{
			time:    3,
			memory:  64 * 1024, // 64 MiB
			threads: 1,
			keyLen:  32,
			saltLen: 16,
		},
	}
}

func (p *PasswordHasher) Hash(password string) (digest, salt []byte, err error) {
	salt = make([]byte, p.params.saltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, err
	}
	digest = argon2.IDKey([]byte(password), salt, p.params.time, p.params.memory, p.params.threads, p.params.keyLen)
	return digest, salt, nil
}

func (p *PasswordHasher) Verify(password string, digest, salt []byte) bool {
	calculated := argon2.IDKey([]byte(password), salt, p.params.time, p.params.memory, p.params.threads, p.params.keyLen)
	return subtle.ConstantTimeCompare(calculated, digest) == 1
}
