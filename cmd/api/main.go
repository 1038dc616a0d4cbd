package main

import "github.com/dafibh/huddle/huddle-backend/internal/cli"

// @title Huddle API
// @version 1.0
// @description Team chat backend: workspaces, channels, direct messages, threads, and reactions.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from Auth0, or from `huddle token` in local mode
func main() {
	cli.Execute()
}
