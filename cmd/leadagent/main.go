// Command leadagent manages seed websites, discovers similar companies and
// researches the resulting leads.
package main

import (
	"context"
	"os"

	"github.com/rpggio/leadagent/internal/cli"
)

var version = "0.1.0-dev"

func main() {
	os.Exit(cli.Execute(context.Background(), version, os.Args[1:], os.Stdout, os.Stderr))
}
