// Package main is a utility for generating bcrypt password hashes. The backend
// stores only bcrypt hashes of user passwords, so this tool is useful when
// manually seeding or repairing user documents without running the full server.
package main

import (
	"fmt"
	"os"

	"github.com/notebase/notebase/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <password>\n", os.Args[0])
		os.Exit(1)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
