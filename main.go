package main

import "github.com/llehouerou/cratedex/internal/cli"

func main() {
	cli.Execute()
}
