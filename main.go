package main

import "bamroute/internal/cli"

func main() {
	cli.Execute()
}
