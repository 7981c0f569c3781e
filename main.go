package main

import "github.com/skillbox/skillbox/cmd"

func main() {
	cmd.Execute()
}
