package main

import "github.com/KaramelBytes/dashwise-cli/cmd"

func main() {
	cmd.Execute()
}
