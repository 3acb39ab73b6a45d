package main

import (
	"repoaccess-backend/cmd/accessions-cli/cmd"
)

func main() {
	cmd.Execute()
}
