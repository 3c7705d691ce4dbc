package main

import "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/cli"

func main() {
	cli.Execute()
}
