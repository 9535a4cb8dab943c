package main

import "github.com/chrisdamba/foodiq/cmd"

func main() {
	cmd.Execute()
}
