package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rui-Duarte-Oliveira/arenaball-mp/server/core"
	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/protocol"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", 20, "Server tick rate (updates per second)")
	name := flag.String("name", "Arenaball Server", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	assets := flag.String("assets", "assets", "Assets directory containing arenas/")
	arenaName := flag.String("arena", "", "Arena to host (empty = first available)")
	masterURL := flag.String("master", "", "Master server URL for registration (empty = standalone)")
	region := flag.String("region", "eu", "Region tag reported to the master server")
	address := flag.String("address", "", "Public address advertised to the master server")
	host := flag.Bool("host", false, "Run as a listen server hosted by a participant")
	flag.Parse()

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arenas, names, err := core.LoadAllArenas(*assets)
	if err != nil {
		log.Fatalf("Failed to load arenas: %v", err)
	}
	if len(names) == 0 {
		log.Fatalf("No arenas found under %s/arenas", *assets)
	}

	selected := *arenaName
	if selected == "" {
		selected = names[0]
	}
	arena, ok := arenas[selected]
	if !ok {
		log.Fatalf("Unknown arena %q (available: %v)", selected, names)
	}

	role := replication.RoleDedicatedAuthority
	if *host {
		role = replication.RoleHostAuthority
	}

	server := core.NewServer(replication.NewContext(role), *tickRate, *name, *version, arena, selected)

	if *masterURL != "" {
		addr := *address
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", *port)
		}
		reg := core.NewRegistration(*masterURL, *name, addr, *version, *region, cfg.Match.MaxParticipants, server)
		reg.Start()
		defer reg.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting Arenaball server %q on port %d (arena: %s, tick rate: %d/s, version: %s)",
		*name, *port, selected, *tickRate, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
