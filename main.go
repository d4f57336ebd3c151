// Package main library API.
//
// @title           Library Management API
// @version         1.0
// @description     Authors, books, categories, loans and users of a lending library.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"os"

	"libraryapi/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
