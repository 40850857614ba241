package main

import (
	"github.com/notamd/nota/cmd"
)

func main() {
	cmd.Execute()
}
