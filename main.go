package main

import "github.com/KaramelBytes/edaclean/cmd"

func main() {
	cmd.Execute()
}
