package main

import "blob-gateway/cmd"

func main() {
	cmd.Execute()
}
