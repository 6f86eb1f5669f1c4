package main

import (
	"github.com/foomo/cmsfront/cmd"
)

func main() {
	cmd.Execute()
}
