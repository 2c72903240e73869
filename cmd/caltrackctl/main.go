// Command caltrackctl is the operator CLI: schema migrations, admin
// bootstrap and token issuance.
package main

func main() {
	Execute()
}
