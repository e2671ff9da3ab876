package main

import "github.com/vytor/kukudrill/internal/cli"

func main() {
	cli.Execute()
}
