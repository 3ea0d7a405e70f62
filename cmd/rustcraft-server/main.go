// Command rustcraft-server is the minimal process bootstrap: wire the
// terrain generator, chunk storage, and TCP listener together and run
// until interrupted. Configuration beyond the config package's defaults
// (flags, environment variables, a config file) is out of scope here.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/netsrv"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/terrain"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/world"
)

func main() {
	logger := log.New(os.Stderr, "rustcraft-server: ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator := terrain.NewChunkGenerator(config.ChunkSeed)

	storage, err := world.NewStorage(world.Config{Logger: logger}, generator)
	if err != nil {
		logger.Fatalf("initialize world storage: %v", err)
	}
	defer storage.Close()

	srv, err := netsrv.New(netsrv.Config{Logger: logger}, storage)
	if err != nil {
		logger.Fatalf("start listener: %v", err)
	}
	defer srv.Close()

	logger.Printf("listening on %s", srv.Addr())
	if err := srv.Serve(ctx); err != nil {
		// Error-rate shutdown is a normal exit: log it and let the
		// deferred closes run.
		logger.Printf("serve: %v", err)
	}
}
