package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"myduka.backend/pkg/crypto"
)

var randomHex = crypto.GenerateRandomToken

// generateSecrets returns a session encryption key (32 bytes, as the session
// store requires) and a JWT signing secret of secretBytes random bytes.
func generateSecrets(secretBytes int) (sessionKey, jwtSecret string, err error) {
	if secretBytes < 32 {
		return "", "", fmt.Errorf("invalid jwt-bytes: %d (minimum 32)", secretBytes)
	}
	if sessionKey, err = randomHex(32); err != nil {
		return "", "", err
	}
	if jwtSecret, err = randomHex(secretBytes); err != nil {
		return "", "", err
	}
	return sessionKey, jwtSecret, nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	jwtBytes := fs.Int("jwt-bytes", 48, "random bytes in the JWT secret")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sessionKey, jwtSecret, err := generateSecrets(*jwtBytes)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "# paste into .env")
	_, _ = fmt.Fprintf(out, "SESSION_ENCRYPTION_KEY=%s\n", sessionKey)
	_, _ = fmt.Fprintf(out, "JWT_SECRET=%s\n", jwtSecret)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
