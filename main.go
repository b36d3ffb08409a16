package main

import "github.com/alexiusacademia/goconn/cmd"

func main() {
	cmd.Execute()
}
