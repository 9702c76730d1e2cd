package main

import (
	"github.com/rnaq/rnaq/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
