package main

import (
	_ "time/tzdata"

	"github.com/UMCU-Digital-Health/No-Show/cmd/noshow/command"
)

func main() {
	command.Execute()
}
