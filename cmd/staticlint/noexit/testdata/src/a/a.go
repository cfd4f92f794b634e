package main

import (
	"os"
	sys "os"
)

func main() {
	defer func() {
		os.Exit(2) // want "вызов os.Exit в функции main запрещён"
	}()
	sys.Exit(1) // want "вызов os.Exit в функции main запрещён"
}

func helper() {
	os.Exit(3)
}
