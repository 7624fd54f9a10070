package pkg

import (
	"math/rand"
	"time"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandString generates a random alphanumeric id of length n.
// No collision checking is done; at lobby scale collisions are unrealistic.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return string(b)
}
