package main

import (
	"boscoin.io/dao/cmd/daoctl/cmd"
)

func main() {
	cmd.Execute()
}
