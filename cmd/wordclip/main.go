package main

import "wordclip/internal/cli"

func main() {
	cli.Execute()
}
