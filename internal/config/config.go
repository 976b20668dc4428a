package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

/*
[storage]
path          = bufmgr.dat
initial_pages = 16
sync_writes   = false

[buffer]
pool_size = 1000

[log]
level = info
path  =
*/

// Load reads an ini file on top of util.DefaultOptions. An empty path
// returns the defaults.
func Load(path string) (util.Options, error) {
	if path == "" {
		return util.DefaultOptions(), nil
	}

	raw, err := ini.Load(path)
	if err != nil {
		return util.Options{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse maps the sections of an already loaded ini file onto options
func Parse(raw *ini.File) (util.Options, error) {
	opts := util.DefaultOptions()

	storage := raw.Section("storage")
	opts.Path = storage.Key("path").MustString(opts.Path)
	opts.InitialPages = storage.Key("initial_pages").MustInt(opts.InitialPages)
	opts.SyncWrites = storage.Key("sync_writes").MustBool(opts.SyncWrites)

	buffer := raw.Section("buffer")
	opts.BufferPoolSize = buffer.Key("pool_size").MustInt(opts.BufferPoolSize)

	log := raw.Section("log")
	opts.LogLevel = log.Key("level").MustString(opts.LogLevel)
	opts.LogPath = log.Key("path").MustString(opts.LogPath)

	if err := opts.Validate(); err != nil {
		return util.Options{}, err
	}
	return opts, nil
}
