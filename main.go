package main

import "github.com/khanhnv2901/netrax/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
