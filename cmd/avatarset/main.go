package main

import "github.com/user/avatarset/internal/cmd"

func main() {
	cmd.Parse()
}
