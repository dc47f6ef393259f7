package main

import "github.com/KaramelBytes/trafficdash/cmd"

func main() {
	cmd.Execute()
}
