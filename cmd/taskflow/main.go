package main

import "github.com/rajeshprivate007/taskflow-frontend/internal/cli"

func main() {
	cli.Execute()
}
