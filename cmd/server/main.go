package main

import "github.com/stemleague/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
