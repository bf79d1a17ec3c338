package main

import "github.com/doinkythederp/rush/cmd"

func main() {
	cmd.Execute()
}
