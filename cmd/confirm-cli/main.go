package main

import "confirm-core/cmd/confirm-cli/cmd"

func main() {
	cmd.Execute()
}
