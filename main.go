/*
	Copyright 2024 Damla Alper
*/

package main

import "github.com/damlalper/gr-pilot-engine-go/cmd"

func main() {
	cmd.Execute()
}
