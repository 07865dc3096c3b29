package main

import "portfolio/cmd"

func main() {
	cmd.Execute()
}
