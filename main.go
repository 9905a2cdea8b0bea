/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"os"

	"github.com/josephgoksu/contactbook/cmd"
	"github.com/josephgoksu/contactbook/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.HandlePanic()
	return cmd.Execute()
}
