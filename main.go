package main

import "github.com/agentic-research/autobake/cmd"

const version = "0.1.0"

func main() {
	cmd.Execute(version)
}
