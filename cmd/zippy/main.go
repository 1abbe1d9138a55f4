package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"github.com/zippy-link/zippy/internal/app"
	"github.com/zippy-link/zippy/internal/config"
)

var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err == nil {
		runtime.GC()
		pprof.WriteHeapProfile(f)
		_ = f.Close()
	}
}

func main() {
	cfg := config.NewConfig()

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		if *memprofile != "" {
			writeHeapProfile(*memprofile)
		}
		application.Shutdown()
		os.Exit(0)
	}()

	if err := application.Run(); err != nil {
		if *memprofile != "" {
			writeHeapProfile(*memprofile)
		}
		log.Fatalf("Error running application: %v", err)
	}
}
