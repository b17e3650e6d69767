package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/macropower/crdtypes/cmd/crdtypes/commands"
)

const (
	cmdName = "crdtypes"

	shortDesc = "Derive type catalogs from CustomResourceDefinitions."
	longDesc  = `crdtypes analyzes the OpenAPI v3 schemas of Kubernetes
CustomResourceDefinitions and produces a deterministic catalog of the struct
and enum types needed to represent them, ready for a code emitter.

Override rules can replace or omit properties by name and schema.
`
)

func main() {
	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
