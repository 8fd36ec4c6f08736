// cmd/deepfold-train/main.go
package main

import (
	"deepfold/internal/appshell"
	"deepfold/internal/trainapp"
)

func main() {
	appshell.Main(trainapp.RunContext)
}
