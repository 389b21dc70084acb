// Command racadmctl drives Dell iDRAC controllers through racadm
package main

import "github.com/davidroman0O/racadm/cmd"

func main() {
	cmd.Execute()
}
