// Command admintoken prints a signed bearer token for the catalog's admin
// endpoints, using the same JWT_SECRET as the server.
package main

import (
	"flag"
	"fmt"
	"os"

	"celestial-server/internal/auth"
	"celestial-server/internal/shared/config"
)

func main() {
	subject := flag.String("subject", "operator", "token subject")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	flag.Parse()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenManager(config.GlobalConfig.Auth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tokens: %v\n", err)
		os.Exit(1)
	}

	token, err := tokens.Generate(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
