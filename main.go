package main

import "github.com/Yates-Labs/postcraft/cmd"

func main() {
	cmd.Execute()
}
