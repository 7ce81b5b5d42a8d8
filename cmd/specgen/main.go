// Command specgen compiles an OpenAPI document into SQL DDL, stored function
// stubs and typed client hooks.
package main

import (
	"context"
	"os"

	"github.com/syssam/specgen/cmd/specgen/commands"
)

func main() {
	if err := commands.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
