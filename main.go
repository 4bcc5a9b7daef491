package main

import "github.com/hdbtools/vcxtract/cmd"

func main() {
	cmd.Execute()
}
