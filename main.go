package main

import "github.com/kamusis/blink/cmd"

func main() {
	cmd.Execute()
}
