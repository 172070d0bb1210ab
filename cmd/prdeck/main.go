package main

import (
	"os"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for hosts without a system trust store

	"github.com/ericfisherdev/prdeck/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
