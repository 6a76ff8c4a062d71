package main

import "github.com/antazoey/evm-trace/cmd"

func main() {
	cmd.Execute()
}
