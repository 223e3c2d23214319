package main

import "github.com/jmehdipour/customer-service/cmd"

func main() {
	cmd.Execute()
}
