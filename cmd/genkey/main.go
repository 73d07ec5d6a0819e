package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Generates an admin API key and the SHA-256 hash the server stores.
// The key goes to the operator; the hash goes into API_KEY_SECRET.
func main() {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	key := hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(key))

	fmt.Printf("KEY=%s\nAPI_KEY_SECRET=%s\n", key, hex.EncodeToString(hash[:]))
}
