package main

import "github.com/Sohailkhan2204/detectscam/internal/cli"

func main() {
	cli.Execute()
}
