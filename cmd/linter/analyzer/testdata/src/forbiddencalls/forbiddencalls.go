package forbiddencalls

import (
	"log"
	"os"
)

func SomePanicFunction() {
	panic("this is forbidden") // want "panic is forbidden"
}

func SomeLogFatalFunction() {
	log.Fatal("this is forbidden") // want "log.Fatal is forbidden outside main function"
}

func SomeOsExitFunction() {
	os.Exit(1) // want "os.Exit is forbidden outside main function"
}

func MultipleCallsFunction() {
	panic("panic 1")   // want "panic is forbidden"
	log.Fatal("fatal") // want "log.Fatal is forbidden outside main function"
	os.Exit(0)         // want "os.Exit is forbidden outside main function"
}

func BypassTheStore() {
	_ = os.WriteFile("urls.json", []byte("[]"), 0o644) // want "os.WriteFile is forbidden outside the file storage package"

	f, _ := os.Create("users.json") // want "os.Create is forbidden outside the file storage package"
	_ = f.Close()
}
