package main

import (
	"os"

	"github.com/dshills/chorus/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
