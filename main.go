package main

import "github.com/frahmantamala/merchant-management/cmd"

func main() {
	cmd.Execute()
}
