// Package cmdutil contains helper utilities for setting up a CLI with Go,
// providing basic application behavior and for reducing boilerplate code.
//
// # Graceful Application Exits
//
// In many command line applications it is desired to exit the process
// immediately, if it is clear that the application cannot recover. With
// os.Exit() the process will terminate immediately, but it will not call any
// deferrers which means that possible cleanup tasks do not get called. The
// package provides an alternative, which panics with a known struct and
// catches it right before the application exit:
//
//	func main() {
//	  defer cmdutil.HandleExit()
//	  run()
//	}
//
//	func run() {
//	  defer fmt.Println("important cleanup")
//	  err := doSomething()
//	  if err != nil {
//	    slog.Error(err.Error())
//	    cmdutil.Exit(2)
//	  }
//	}
//
// # Minimal Application Boilerplate
//
// New creates a ready-to-use Cobra command with the usual service plumbing
// attached:
//
//	func main() {
//	    defer cmdutil.HandleExit()
//
//	    cmd := cmdutil.New(
//	        "myapp", "an example service",
//	        cmdutil.WithLoggerInit("myapp"),
//	        cmdutil.WithVersionCommand(),
//	        cmdutil.WithVersionLog(slog.LevelDebug),
//	        cmdutil.WithRunner(new(Runner)),
//	    )
//
//	    err := cmd.Execute()
//	    if err != nil {
//	        cmdutil.Must(err)
//	    }
//	}
//
// Runners are structs that define command line flags in Bind and execute the
// main application logic in Run with a signal-aware context.
package cmdutil
