package main

import "github.com/aoldacloud/console/cmd/console/cmd"

func main() {
	cmd.Execute()
}
