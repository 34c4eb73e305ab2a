// main.go
//
// Entry point for the cowbull server and its companion commands.
// See root.go for the command tree.

package main

func main() {
	Execute()
}
