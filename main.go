package main

import "github.com/olehluchkiv/classdiag/internal/cli"

func main() {
	cli.Execute()
}
