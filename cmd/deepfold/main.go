// cmd/deepfold/main.go
package main

import (
	"deepfold/internal/app"
	"deepfold/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
