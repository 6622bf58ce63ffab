// FILE: lixenwraith/layercfg/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	config "github.com/lixenwraith/layercfg"
)

// Defaults are the lowest layer
type Defaults struct {
	Server struct {
		Host         string        `config:"host"`
		Port         int           `config:"port"`
		ReadTimeout  time.Duration `config:"read_timeout"`
		WriteTimeout time.Duration `config:"write_timeout"`
	} `config:"Server"`
	SMTP struct {
		Host     string `config:"host"`
		FromAddr string `config:"from_addr"`
	} `config:"SMTP"`
	Debug bool `config:"debug"`
}

// ServerSettings is bound from the merged view; values stay strings
type ServerSettings struct {
	Host        string `config:"host"`
	Port        string `config:"port"`
	ReadTimeout string `config:"read_timeout"`
}

const sampleIni = `; sample configuration
[Server]
host = "0.0.0.0"
port = 9000

[SMTP]
host = mail.example.com
from_addr = "noreply@example.com"
`

func main() {
	dir, err := os.MkdirTemp("", "layercfg-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "app.ini"), []byte(sampleIni), 0644); err != nil {
		log.Fatal(err)
	}

	defaults := &Defaults{}
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080
	defaults.Server.ReadTimeout = 30 * time.Second
	defaults.Server.WriteTimeout = 30 * time.Second

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	// Try: go run ./example -p 9090 --debug true
	provider := config.NewDirProvider(dir)
	cfg, err := config.NewBuilder().
		WithLogger(logger).
		AddDefaults(defaults).
		AddIniFile(provider, "app.ini", false).
		AddIniFile(provider, "local.ini", true).
		AddEnv("EXAMPLE_").
		AddCommandLineWithMappings(os.Args[1:], map[string]string{
			"-p": "Server:port",
			"-h": "Server:host",
		}).
		Build()
	if err != nil {
		switch {
		case errors.Is(err, config.ErrNotFound):
			log.Fatalf("missing configuration file: %v", err)
		case errors.Is(err, config.ErrFormat):
			log.Fatalf("malformed configuration: %v", err)
		default:
			log.Fatalf("failed to load configuration: %v", err)
		}
	}

	fmt.Println("=== Effective configuration ===")
	for _, key := range cfg.Keys() {
		val, _ := cfg.Get(key)
		src, _ := cfg.Provenance(key)
		fmt.Printf("%-22s = %-24q (%s)\n", key, val, src)
	}

	var server ServerSettings
	if err := cfg.Bind("server", &server); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nServer section: %+v\n", server)
	fmt.Printf("Top-level sections: %v\n", cfg.ChildKeys(""))

	fmt.Println("\n=== TOML export ===")
	if err := cfg.WriteTOML(os.Stdout); err != nil {
		log.Fatal(err)
	}
}
