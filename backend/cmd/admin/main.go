// Command admin runs maintenance tasks against the seguimientos database:
// migrations, bootstrap admin accounts, password resets and year rollover.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdout)
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
