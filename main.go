package main

import "github.com/anvilkit/anvil/cmd"

func main() {
	cmd.Execute()
}
