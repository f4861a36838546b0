package main

import (
	"os"

	"text2phenotype.com/ner/cli"
	"text2phenotype.com/ner/logger"
)

func main() {
	logger.SetupLogging()
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
