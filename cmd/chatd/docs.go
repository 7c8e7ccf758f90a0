package main

// General API documentation for swaggo. Regenerate internal/httpapi/docs with:
//
//	swag init --dir cmd/chatd,internal/httpapi,pkg/types -g docs.go -o internal/httpapi/docs --outputTypes go
//
// @title           chatd API
// @version         1.0
// @description     HTTP API for chat completions from a local GGUF model.
//
// @contact.name   chatd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
