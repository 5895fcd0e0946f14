package main

import (
	"fmt"
	"os"

	"mediameter/internal/auth"
)

// init-servicekey prints the bcrypt hash for SERVICE_KEY_HASH. The key
// itself comes from the environment so it never lands in shell history.
func main() {
	key := os.Getenv("SERVICE_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "ERROR: SERVICE_KEY must be set")
		os.Exit(1)
	}
	if len(key) < 16 {
		fmt.Fprintln(os.Stderr, "ERROR: SERVICE_KEY must be at least 16 characters")
		os.Exit(1)
	}

	hash, err := auth.HashServiceKey(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to hash service key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
