package main

import "github.com/vietddude/addrwatch/internal/cli"

func main() {
	cli.Execute()
}
