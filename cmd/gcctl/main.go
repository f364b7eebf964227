// Command gcctl runs canned object-graph scenarios against a collector heap
// and reports what each collection did.
package main

func main() {
	execute()
}
