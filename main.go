package main

import "github.com/vigila-io/vigilfetch/cmd"

func main() {
	cmd.Execute()
}
