package main

import (
	"os"

	"xraychat/cmd"
)

// @title        XrayChat API
// @version      1.0
// @description  胸片多模态对话演示服务
// @BasePath     /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
