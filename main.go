package main

import "github.com/scanbridge/scanbridge/cmd"

func main() {
	cmd.Execute()
}
