package main

import "github.com/inovacc/git-pr-mcp/cmd"

func main() {
	cmd.Execute()
}
