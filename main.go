package main

import "github.com/twiced-technology-gmbh/tasklanes/cmd"

func main() {
	cmd.Execute()
}
