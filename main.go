package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"preset-library/api"
	"preset-library/codec"
	"preset-library/config"
	"preset-library/events"
	"preset-library/library"
	"preset-library/persist"
	"preset-library/preview"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	backend, err := persist.OpenBolt(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("failed to open snapshot store: %v", err)
	}
	defer backend.Close()

	bus := events.NewBus()
	store := library.NewStore(library.DefaultWhitelist())

	// A failed load is not fatal: the library starts empty and the next
	// save re-establishes the snapshot.
	if entries, err := backend.LoadSnapshot(); err != nil {
		log.Printf("snapshot load failed, starting with an empty library: %v", err)
		bus.Publish(events.Event{Type: events.PersistError, Error: err.Error()})
	} else {
		store.Replace(entries)
	}

	syncer := persist.NewSyncer(store, backend, cfg.SaveDebounce, bus)
	store.SetOnChange(syncer.Schedule)

	queue := preview.NewQueue(store, preview.NewSwatchRenderer(), cfg.RenderTimeout, bus)

	router := api.RegisterRoutes(api.Deps{
		Store:     store,
		Queue:     queue,
		Bus:       bus,
		Whitelist: library.DefaultWhitelist(),
		FileIO:    codec.OSFileIO{},
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		log.Printf("preset-library listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	queue.Stop()
	syncer.Flush()
	srv.Close()
}
