// Command bloghub is the entry point for the blog platform backend.
package main

import "bloghub/cmd"

func main() {
	cmd.Execute()
}
