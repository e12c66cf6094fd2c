package main

import (
	"fmt"
	"log"
	"net/http"

	"shopchat-client/internal/config"
	"shopchat-client/internal/devserver"
)

func main() {
	cfg := config.Load()
	s := devserver.NewServer(cfg.AllowedOrigin)
	addr := ":" + cfg.Port
	fmt.Printf("shopchat stub backend listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
