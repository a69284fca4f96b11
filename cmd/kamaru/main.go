package main

import "kamaru/cmd/kamaru/cmd"

// @title kamaru API
// @version 1.0
// @description Events management backend: accounts, events, participants, media and newsletter.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
