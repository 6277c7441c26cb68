// cmd/partcountlogger/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/app"
	"github.com/tamzrod/part-count-logger/internal/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// run returns the process exit status so deferred cleanup always happens.
func run() int {
	cfgPath := flag.String("config", "part_count_logger.yaml", "config file path")
	simulate := flag.Bool("simulate", false, "poll the built-in simulated instrument instead of the serial port")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("part-count-logger %s (build: %s)\n", Version, BuildTime)
		return 0
	}

	// --------------------
	// Load + validate config (nothing is opened yet)
	// --------------------

	settings, err := app.LoadSettings(*cfgPath, time.Local)
	if err != nil {
		logrus.Errorf("configuration failed: %v", err)
		return 1
	}

	log, closeLog, err := logging.New(settings.Log)
	if err != nil {
		logrus.Errorf("configuration failed: %v", err)
		return 1
	}
	defer closeLog()

	// SIGINT/SIGTERM end the run between rows, never inside one.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Setup: transport, log file, mirrors
	// --------------------

	sess, err := app.Open(ctx, settings, log, app.Options{Simulate: *simulate})
	if err != nil {
		log.Errorf("%s failed: %v", app.Phase(err), err)
		return 1
	}
	defer sess.Close()

	// --------------------
	// Poll until stopped
	// --------------------

	res, err := sess.Run(ctx)
	if err != nil {
		log.Errorf("%s failed after %d records: %v", app.Phase(err), res.Records, err)
		return 1
	}

	log.Infof("Exiting (%s, %d records in %s)", res.Reason, res.Records, sess.LogPath())
	return 0
}
