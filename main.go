// Entrypoint for the Cobra CLI; delegates to cmd/root.go.

package main

import (
	"github.com/opsim/missionsim/cmd"
)

func main() {
	cmd.Execute()
}
