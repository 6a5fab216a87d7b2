package main

import "github.com/jmehdipour/jokecast/cmd"

func main() {
	cmd.Execute()
}
