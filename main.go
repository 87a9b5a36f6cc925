package main

import (
	"fmt"

	"github.com/duskforge/voxelcore/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Println(err.Error())
		return
	}
}
