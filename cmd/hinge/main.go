package main

import "k3l.io/go-hinge/cmd/hinge/cmd"

func main() {
	cmd.Execute()
}
