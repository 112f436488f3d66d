//go:build ignore

// Prints a bcrypt hash for seeding users.json.
//
//	go run scripts/generate_password.go <password> [cost]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/your-org/furniture-store/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password> [cost]")
	}

	password := os.Args[1]
	cost := 12
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("Invalid cost %q: %v", os.Args[2], err)
		}
		cost = parsed
	}

	pm := auth.NewPasswordManager(cost)
	if err := pm.ValidatePassword(password); err != nil {
		log.Fatal("Invalid password:", err)
	}

	hash, err := pm.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	fmt.Printf("Password: %s\n", password)
	fmt.Printf("Hash: %s\n", hash)

	if err := pm.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully!")
}
