package main

import "github.com/Carmen-Shannon/oxy-starfield/cmd"

func main() {
	cmd.Execute()
}
