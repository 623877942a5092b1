// Command hashpass prints the bcrypt hash stored for a password, for seeding
// admin accounts by hand.
package main

import (
	"fmt"
	"os"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("usage: hashpass <password>")
	}
	password := os.Args[1]

	cost := 12
	if cfg, err := config.Load(); err == nil {
		cost = cfg.Security.BcryptCost
	}
	passwords := auth.NewPasswordManager(cost)

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("error generating hash")
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.WithError(err).Fatal("hash verification failed")
	}

	fmt.Println(hash)
}
