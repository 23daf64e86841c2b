package main

import "github.com/paycrux/switch-connector/cmd"

func main() {
	cmd.Execute()
}
