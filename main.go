package main

import (
	"log"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

//	@title						Library catalog API
//	@version					1.0
//	@description				Authors, genres, books and comments with referential integrity.
//	@host						localhost:8080
//	@BasePath					/
//	@securityDefinitions.basic	BasicAuth
func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("library: application failed to initialize: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("library: application exited. check logs for more details. ", err)
	}
}
