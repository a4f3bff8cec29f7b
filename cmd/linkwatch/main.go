// The linkwatch server lets registered users keep a short list of links
// and periodically checks whether those links still respond.
package main

import (
	"log"

	"github.com/patric-chuzhbe/linkwatch/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Panicf("unable to initialize the application: %v", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Panicf("application terminated with error: %v", err)
	}
}
