package main

import "chatroom/internal/cli"

func main() {
	cli.Execute()
}
