package main

import "github.com/zkpipe/fibonacci-prover/cmd"

func main() {
	cmd.Execute()
}
