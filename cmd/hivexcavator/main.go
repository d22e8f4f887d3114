// Command hivexcavator prints the key/value tree of a registry hive, such as
// a BCD boot configuration store.
//
//	hivexcavator ~/test/pxe/conf.bcd
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr, os.Getenv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
