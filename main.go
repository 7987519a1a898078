package main

import (
	"os"

	"github.com/pvojtechovsky/sonarqube-repair/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
