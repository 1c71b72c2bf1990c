package main

import "github.com/llehouerou/lyricsync/internal/cli"

func main() {
	cli.Execute()
}
