package core

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.RWMutex
	crashCleanup func()
)

// SetCrashCleanup installs a hook run before the crash report is printed
// The binary uses it to restore the terminal; nil removes the hook
func SetCrashCleanup(fn func()) {
	crashMu.Lock()
	crashCleanup = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler: runs cleanup, prints the stack trace, exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.RLock()
	cleanup := crashCleanup
	crashMu.RUnlock()

	if cleanup != nil {
		cleanup()
	}

	stack := debug.Stack()
	log.Printf("crash: %v\n%s", r, stack)

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a worker crash restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
