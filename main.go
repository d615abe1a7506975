package main

import "wakeguard/cmd"

func main() {
	cmd.Execute()
}
