package main

import "github.com/SteadyHua/github1s/cmd"

func main() {
	cmd.Execute()
}
