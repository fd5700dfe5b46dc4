package main

import "github.com/totonga/tdms-tools/cmd/tdms/cmd"

func main() {
	cmd.Execute()
}
