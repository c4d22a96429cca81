package main

import "github.com/masmgr/cmpbranch-go/cmd"

func main() {
	cmd.Run()
}
