package main

import (
	"github.com/loictrobas/discogs-tool/cmd"
)

func main() {
	cmd.Execute()
}
