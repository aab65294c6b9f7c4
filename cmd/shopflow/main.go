// Journey runner
//
// Runs the shopping journeys against a storefront in headless Chrome and
// prints a PASS/FAIL summary:
//
//	go run ./cmd/shopflow run
//	go run ./cmd/shopflow run --fixture --parallel 3
//	go run ./cmd/shopflow run --base-url http://localhost:8080/ --journey logout
package main

import "github.com/thesyncim/shopflow/cmd/shopflow/cmd"

func main() {
	cmd.Execute()
}
