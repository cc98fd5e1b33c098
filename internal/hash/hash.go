package hash

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Cost is fixed so stored hashes keep one work factor across deployments.
const Cost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var missHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("techstore-unknown-account"), Cost)
	if err != nil {
		panic(err)
	}
	return h
})

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckMissing spends the same bcrypt work as CheckPassword for an account
// that does not exist. It always reports false.
func CheckMissing(password string) bool {
	_ = bcrypt.CompareHashAndPassword(missHash(), []byte(password))
	return false
}
