package main

import (
	"os"

	"github.com/ZenLiuCN/dynlib/invoker"
)

func main() {
	os.Exit(invoker.Run(os.Args, os.Stdout, os.Stderr))
}
