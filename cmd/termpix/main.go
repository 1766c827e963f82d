package main

import "github.com/termpix/termpix/cmd/termpix/cmd"

func main() {
	cmd.Execute()
}
