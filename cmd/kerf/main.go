// Command kerf evaluates kerf design scripts and exports, measures and
// inspects the parts they define.
package main

func main() {
	Execute()
}
