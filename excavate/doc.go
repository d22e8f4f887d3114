// Package excavate renders a registry hive (typically a BCD boot
// configuration store) as an indented tree of keys and decoded values.
//
// The package only talks to the hive through the Accessor interface, which
// the reader in internal/reader satisfies. Output is produced as semantic
// Lines handed to a Sink; TextSink, JSONSink and Collector cover terminals,
// machine consumers and tests.
//
//	ex, err := excavate.Open("/srv/tftp/boot/BCD")
//	if err != nil {
//	    return err
//	}
//	defer ex.Close()
//	return ex.Display()
package excavate
