package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/gamevault/gamevault-api/cmd/app"
)

// @title           GameVault API
// @version         1.0
// @description     Catalogue of classic games and community votes for their re-release.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
