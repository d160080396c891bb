package main

import "mindpalace/cmd/mp/root"

func main() {
	root.Execute()
}
