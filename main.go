package main

import "improved-initiative/cmd"

func main() {
	cmd.Execute()
}
