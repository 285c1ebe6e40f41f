package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"myduka.backend/pkg/crypto"
)

var (
	hashFn   = crypto.HashPasswordWithCost
	fatalfFn = log.Fatalf
)

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	cost := fs.Int("cost", crypto.Cost(), "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: genhash [-cost N] <password>")
	}

	hash, err := hashFn(fs.Arg(0), *cost)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, hash)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fatalfFn("%v", err)
	}
}
