package main

import "github.com/klytics/chartkit/cmd"

func main() {
	cmd.Execute()
}
