package main

import "mail-calendar-agent/cmd/cli"

func main() {
	cli.Execute()
}
